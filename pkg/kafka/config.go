package kafka

// Config holds Kafka connection parameters.
type Config struct {
	Brokers []string

	// TLS enables TLS for broker connections. CAFile optionally names a PEM
	// bundle used as the root CA pool.
	TLS    bool
	CAFile string
}
