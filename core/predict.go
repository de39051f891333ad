package core

import (
	"context"
	"encoding/json"
	"io"
)

type (
	// PredictResponse is the classifier's answer, relayed as is to the caller.
	PredictResponse struct {
		StatusCode int
		Body       json.RawMessage
	}

	// Predictor is any service that can classify an uploaded file against a label.
	Predictor interface {
		Predict(ctx context.Context, label, filename string, file io.Reader) (PredictResponse, error)
	}
)
