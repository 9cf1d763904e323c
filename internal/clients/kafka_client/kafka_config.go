package kafka_client

type KafkaConfig struct {
	Broker        string
	Topic         string
	TransactionID string
}

func NewKafkaConfig(broker, topic string) KafkaConfig {
	if topic == "" {
		topic = KAFKA_TOPIC_SEVERITY_RESULTS
	}
	return KafkaConfig{
		Broker:        broker,
		Topic:         topic,
		TransactionID: "reviewflow-scorer-1",
	}
}
