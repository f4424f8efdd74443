package model

import "time"

type ExecutionStatus string

const EXECUTION_STATUS_PENDING ExecutionStatus = "pending"
const EXECUTION_STATUS_SUCCESS ExecutionStatus = "success"
const EXECUTION_STATUS_FAILED ExecutionStatus = "failed"

// ExecutionLog is an append-only audit record. A pending entry is written
// before each node runs and a success entry after; the engine never reads
// these back.
type ExecutionLog struct {
	Id           string          `json:"id"`
	FlowId       string          `json:"flowId"`
	SubscriberId string          `json:"subscriberId"`
	NodeId       string          `json:"nodeId"`
	Status       ExecutionStatus `json:"status"`
	Timestamp    time.Time       `json:"timestamp"`
}
