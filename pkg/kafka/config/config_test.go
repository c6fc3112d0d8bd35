package kafka_config

import "testing"

func TestLoad_DisabledWithoutBrokers(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Enabled() {
		t.Error("expected Kafka to be disabled without brokers")
	}
}

func TestLoad_ParsesBrokers(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "kafka-1:9092, kafka-2:9092,")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Brokers) != 2 || cfg.Brokers[1] != "kafka-2:9092" {
		t.Errorf("Brokers = %v", cfg.Brokers)
	}
}

func TestValidate_RejectsBadCompression(t *testing.T) {
	cfg := &Config{
		Brokers:              []string{"localhost:9092"},
		ProducerMaxAttempts:  DefaultProducerMaxAttempts,
		ProducerBatchTimeout: DefaultProducerBatchTimeout,
		ProducerWriteTimeout: DefaultProducerWriteTimeout,
		ProducerRequireAcks:  DefaultProducerRequireAcks,
		ProducerCompression:  "brotli",
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported compression")
	}
	cfg.ProducerCompression = "zstd"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
