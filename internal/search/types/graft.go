package types

// GraftQueueItem is one record offered to the ingestion endpoint
type GraftQueueItem struct {
	Source          string      `json:"source"`
	DataType        string      `json:"data_type"`
	ConfidenceScore float64     `json:"confidence_score"`
	Payload         Observation `json:"payload"`
}
