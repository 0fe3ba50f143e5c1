package cmd

import "time"

// Config carries the flat environment configuration of the application.
type Config struct {
	HTTPPort          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSslMode         string
	SweepInterval     time.Duration
	AssignmentTimeout time.Duration
	BayCapacity       int
	MQTTBrokerURL     string
	MQTTClientID      string
	MQTTTopicPrefix   string
}
