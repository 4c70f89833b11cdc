// Package types
package types

type ServerStatus struct {
	Status        string `json:"status" bson:"status"`
	AppVersion    string `json:"appVersion" bson:"appVersion"`
	DbStatus      string `json:"dbStatus" bson:"dbStatus"`
	CacheStatus   string `json:"cacheStatus" bson:"cacheStatus"`
	LedgerHeight  uint64 `json:"ledgerHeight" bson:"ledgerHeight"`
	SyncedHeight  uint64 `json:"syncedHeight" bson:"syncedHeight"`
	TotalTokens   uint64 `json:"totalTokens" bson:"totalTokens"`
	TotalAuctions uint64 `json:"totalAuctions" bson:"totalAuctions"`
}

// SyncCheckpoint remembers how far one event type has been replayed
// into the read-model, so a watcher restart resumes instead of
// re-reading from zero.
type SyncCheckpoint struct {
	EventType EventType `json:"eventType" bson:"eventType"`
	Position  uint64    `json:"position" bson:"position"`
	Height    uint64    `json:"height" bson:"height"`
	UpdatedAt int64     `json:"updatedAt" bson:"updatedAt"`
}
