package manager

import (
	"fmt"

	"github.com/hangarhq/hangar/pkg/types"
)

// Endpoints returns the static endpoint catalog for a service type.
// These are the routes a deployment's serving process exposes once a
// runtime picks it up; the manager only reports them.
func Endpoints(serviceType types.ServiceType) []types.Endpoint {
	prefix := fmt.Sprintf("/api/ml/%s", serviceType)

	switch serviceType {
	case types.ServiceTypeClassification:
		return []types.Endpoint{
			{Method: "POST", Path: prefix + "/classify", Description: "Classify a single document"},
			{Method: "POST", Path: prefix + "/classify/batch", Description: "Classify a batch of documents"},
			{Method: "GET", Path: prefix + "/health", Description: "Serving health"},
		}
	case types.ServiceTypeNLP:
		return []types.Endpoint{
			{Method: "POST", Path: prefix + "/analyze", Description: "Full NLP analysis of a text"},
			{Method: "POST", Path: prefix + "/sentiment", Description: "Sentiment score for a text"},
			{Method: "GET", Path: prefix + "/health", Description: "Serving health"},
		}
	case types.ServiceTypeChatbot:
		return []types.Endpoint{
			{Method: "POST", Path: prefix + "/chat", Description: "Answer a chat message"},
			{Method: "POST", Path: prefix + "/search", Description: "Retrieve matching knowledge entries"},
			{Method: "GET", Path: prefix + "/health", Description: "Serving health"},
		}
	default:
		return []types.Endpoint{
			{Method: "POST", Path: prefix + "/predict", Description: "Run a single prediction"},
			{Method: "GET", Path: prefix + "/info", Description: "Model metadata"},
			{Method: "GET", Path: prefix + "/health", Description: "Serving health"},
		}
	}
}
