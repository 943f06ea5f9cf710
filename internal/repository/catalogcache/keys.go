package catalogcache

import "time"

const (
	// Full de-duplicated catalog: catalog:snapshot:v1 -> JSON []ProductRecord
	KeySnapshot = "catalog:snapshot:v1"
)

var TTLSnapshot = 5 * time.Minute
