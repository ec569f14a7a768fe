package config

type Config struct {
	ListenAddr  string `flag:"listen-addr"`
	MetricsAddr string `flag:"metrics-addr"`
	NATSURL     string `flag:"nats-url"`
	NATSInit    bool   `flag:"nats-init"`
	LogLevel    string `flag:"log-level"`
}
