package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/botweave/botweave/agent"
	"github.com/botweave/botweave/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("namespace", "botweave", "namespace used in storage")
	cmd.Flags().Int("http-port", 8080, "http port for rest endpoints")
	cmd.Flags().String("storage-impl", "redis", "implementation of underline storage")
	cmd.Flags().Int("poll-interval", 5, "channel inbox poll interval in seconds")
	cmd.Flags().Int("settle-delay", 600, "delay in ms between consecutive sends")
	cmd.Flags().String("openai-api-key", "", "api key for the text generator")
	cmd.Flags().String("openai-model", "", "model used for generated replies")
	cmd.Flags().String("gate-url", "", "entitlement gate endpoint, empty allows everything")
	cmd.Flags().String("channel-send-url", "", "platform send gateway endpoint")
	cmd.Flags().String("channel-inbox-url", "", "platform inbox check endpoint")
	cmd.Flags().String("channel-access-token", "", "access token for the channel gateway")
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	var err error

	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	viper.SetConfigFile(configFile)

	if err = viper.ReadInConfig(); err != nil {
		// it's ok if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.PollIntervalSeconds = viper.GetInt("poll-interval")
	c.cfg.SettleDelayMs = viper.GetInt("settle-delay")
	c.cfg.OpenAIConfig.ApiKey = viper.GetString("openai-api-key")
	c.cfg.OpenAIConfig.Model = viper.GetString("openai-model")
	c.cfg.GateConfig.Url = viper.GetString("gate-url")
	c.cfg.ChannelConfig.SendUrl = viper.GetString("channel-send-url")
	c.cfg.ChannelConfig.InboxUrl = viper.GetString("channel-inbox-url")
	c.cfg.ChannelConfig.AccessToken = viper.GetString("channel-access-token")
	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	var err error
	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		panic(err)
	}
	err = agent.Start()
	if err != nil {
		panic(err)
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	return agent.Shutdown()
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "botweave",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
