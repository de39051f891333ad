package predictsvc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/bassiony1/public-ANEES/core"
)

// StubService answers every prediction locally, for dev & tests.
type StubService struct {
	logger core.Logger
}

var _ core.Predictor = (*StubService)(nil)

func NewStubService(logger core.Logger) *StubService {
	return &StubService{logger: logger}
}

func (svc *StubService) Predict(_ context.Context, label, filename string, file io.Reader) (core.PredictResponse, error) {
	n, err := io.Copy(io.Discard, file)
	if err != nil {
		return core.PredictResponse{}, err
	}
	svc.logger.Debug("stub prediction", map[string]interface{}{"label": label, "filename": filename, "size": n})

	body, _ := json.Marshal(map[string]interface{}{"label": label, "match": true})
	return core.PredictResponse{StatusCode: http.StatusOK, Body: body}, nil
}
