package sink

import (
	"testing"
)

func TestNewKafkaSinkFromEnvDefaults(t *testing.T) {
	for _, k := range []string{
		"KAFKA_BROKERS", "KAFKA_TOPIC", "KAFKA_ACKS", "KAFKA_COMPRESSION",
		"KAFKA_SASL_MECHANISM", "KAFKA_SASL_USER", "KAFKA_SASL_PASSWORD",
		"KAFKA_TLS_CA", "KAFKA_TLS_SKIP_VERIFY",
	} {
		t.Setenv(k, "")
	}

	s := NewKafkaSinkFromEnv()
	if len(s.config.Brokers) != 1 || s.config.Brokers[0] != "localhost:9092" {
		t.Errorf("Brokers = %v, want [localhost:9092]", s.config.Brokers)
	}
	if s.config.Topic != "quietpath.issued" {
		t.Errorf("Topic = %q, want quietpath.issued", s.config.Topic)
	}
	if s.config.Acks != "all" {
		t.Errorf("Acks = %q, want all", s.config.Acks)
	}
	if s.config.TLSSkipVerify {
		t.Error("TLSSkipVerify should default to false")
	}
	if s.Name() != "kafka" {
		t.Errorf("Name() = %q, want kafka", s.Name())
	}
}

func TestNewKafkaSinkFromEnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092 ,broker3:9092")
	t.Setenv("KAFKA_TOPIC", "audit.configs")
	t.Setenv("KAFKA_ACKS", "1")
	t.Setenv("KAFKA_COMPRESSION", "zstd")
	t.Setenv("KAFKA_SASL_MECHANISM", "SCRAM-SHA-512")
	t.Setenv("KAFKA_SASL_USER", "svc-quietpath")
	t.Setenv("KAFKA_SASL_PASSWORD", "hunter2")
	t.Setenv("KAFKA_TLS_SKIP_VERIFY", "true")

	s := NewKafkaSinkFromEnv()
	want := []string{"broker1:9092", "broker2:9092", "broker3:9092"}
	if len(s.config.Brokers) != len(want) {
		t.Fatalf("Brokers = %v, want %v", s.config.Brokers, want)
	}
	for i, b := range want {
		if s.config.Brokers[i] != b {
			t.Errorf("Brokers[%d] = %q, want %q", i, s.config.Brokers[i], b)
		}
	}
	if s.config.Topic != "audit.configs" {
		t.Errorf("Topic = %q, want audit.configs", s.config.Topic)
	}
	if s.config.Acks != "1" {
		t.Errorf("Acks = %q, want 1", s.config.Acks)
	}
	if s.config.Compression != "zstd" {
		t.Errorf("Compression = %q, want zstd", s.config.Compression)
	}
	if s.config.SASLMechanism != "SCRAM-SHA-512" {
		t.Errorf("SASLMechanism = %q", s.config.SASLMechanism)
	}
	if !s.config.TLSSkipVerify {
		t.Error("TLSSkipVerify = false, want true")
	}
}

func TestKafkaEnqueueBeforeStart(t *testing.T) {
	s := NewKafkaSink([]string{"localhost:9092"}, "audit.configs")
	if err := s.Enqueue(testEvent("https://example.com")); err == nil {
		t.Error("expected error when enqueueing before Start")
	}
}

func TestKafkaCloseBeforeStart(t *testing.T) {
	s := NewKafkaSink([]string{"localhost:9092"}, "audit.configs")
	if err := s.Close(); err != nil {
		t.Errorf("Close before Start: %v", err)
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true}, {"true", true}, {"YES", true}, {"t", true},
		{"0", false}, {"false", false}, {"no", false},
		{"", false}, {"garbage", false},
	}
	for _, tt := range tests {
		t.Setenv("QP_TEST_BOOL", tt.value)
		if got := getBoolEnv("QP_TEST_BOOL", false); got != tt.want {
			t.Errorf("getBoolEnv(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
