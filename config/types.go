package config

// APIConfig contains WSF Vessels API configuration
type APIConfig struct {
	BaseURL          string `yaml:"baseURL" validate:"required,url"`
	AccessCodeEnv    string `yaml:"accessCodeEnv" validate:"required"`
	TimeoutMS        int    `yaml:"timeoutMS" validate:"gt=0"`
	HistoryTimeoutMS int    `yaml:"historyTimeoutMS" validate:"gt=0"`
}

// ModelConfig contains the hosted delay model endpoint configuration
type ModelConfig struct {
	URL       string `yaml:"url" validate:"omitempty,url"`
	APIKeyEnv string `yaml:"apiKeyEnv" validate:"required"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gt=0"`
}

// OutputConfig controls how the CLI renders results
type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=json csv xml table pb"`
}

// GTFSRTConfig contains GTFS-Realtime export configuration
type GTFSRTConfig struct {
	AgencyID string `yaml:"agency_id" validate:"omitempty,alphanum"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	API    APIConfig    `yaml:"api" validate:"required"`
	Model  ModelConfig  `yaml:"model"`
	Output OutputConfig `yaml:"output"`
	GTFSRT GTFSRTConfig `yaml:"gtfsrt"`
}
