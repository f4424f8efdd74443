package config

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

type Config struct {
	RedisConfig         RedisStorageConfig
	StorageType         StorageType
	HttpPort            int
	PollIntervalSeconds int
	SettleDelayMs       int
	OpenAIConfig        OpenAIConfig
	GateConfig          GateConfig
	ChannelConfig       ChannelConfig
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
	Password  string
}

type OpenAIConfig struct {
	ApiKey string
	Model  string
}

type GateConfig struct {
	Url string
}

type ChannelConfig struct {
	SendUrl     string
	InboxUrl    string
	AccessToken string
}
