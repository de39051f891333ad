package predictsvc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/bassiony1/public-ANEES/core"
)

var ErrUpstream = errors.New("prediction service unreachable")

// RestyService relays files to the remote classifier. Requests are never retried.
type RestyService struct {
	client      *resty.Client
	url         string
	accessToken string
	logger      core.Logger
}

var _ core.Predictor = (*RestyService)(nil)

func NewRestyService(conf *core.Config, logger core.Logger) *RestyService {
	client := resty.New().
		SetTimeout(conf.Predict.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return &RestyService{
		client:      client,
		url:         conf.Predict.URL,
		accessToken: conf.Predict.AccessToken,
		logger:      logger,
	}
}

func (svc *RestyService) Predict(ctx context.Context, label, filename string, file io.Reader) (core.PredictResponse, error) {
	resp, err := svc.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"label":        label,
			"access_token": svc.accessToken,
		}).
		SetFileReader("file", filename, file).
		Post(svc.url)
	if err != nil {
		svc.logger.Error("calling prediction service", err)
		return core.PredictResponse{}, errors.Wrap(ErrUpstream, err.Error())
	}

	body := resp.Body()
	if !json.Valid(body) {
		// non-JSON answers are replaced by the upstream status text
		quoted, _ := json.Marshal(map[string]string{"error": http.StatusText(resp.StatusCode())})
		body = quoted
	}
	return core.PredictResponse{StatusCode: resp.StatusCode(), Body: body}, nil
}
