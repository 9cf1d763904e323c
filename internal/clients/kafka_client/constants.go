package kafka_client

import "time"

const (
	KAFKA_TOPIC_SEVERITY_RESULTS = "severity-results" // scored reviews, one message per review
)

const (
	MAX_RETRIES = 3
	RETRY_DELAY = 2 * time.Second
	FLUSH_MS    = 5000
)
