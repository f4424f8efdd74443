package agent

import (
	"fmt"
	"time"

	"github.com/botweave/botweave/ai"
	"github.com/botweave/botweave/channel"
	"github.com/botweave/botweave/config"
	"github.com/botweave/botweave/engine"
	"github.com/botweave/botweave/gate"
	"github.com/botweave/botweave/logger"
	"github.com/botweave/botweave/persistence"
	"github.com/botweave/botweave/persistence/inmem"
	"github.com/botweave/botweave/persistence/redis"
	"github.com/botweave/botweave/rest"
)

// Agent wires storage, channel clients, the engine and the http server into
// one process.
type Agent struct {
	Config     config.Config
	storage    persistence.Storage
	engine     *engine.Engine
	httpServer *rest.Server
}

func New(conf config.Config) (*Agent, error) {
	var storage persistence.Storage
	switch conf.StorageType {
	case config.STORAGE_TYPE_REDIS:
		storage = redis.NewRedisStorage(redis.Config{
			Addrs:     conf.RedisConfig.Addrs,
			Namespace: conf.RedisConfig.Namespace,
			Password:  conf.RedisConfig.Password,
		})
	case config.STORAGE_TYPE_INMEM:
		storage = inmem.NewInMemStorage()
	default:
		return nil, fmt.Errorf("unknown storage type %s", conf.StorageType)
	}

	sender := channel.NewHttpSender(conf.ChannelConfig)
	inbox := channel.NewHttpInbox(conf.ChannelConfig)
	generator := ai.NewOpenAIGenerator(conf.OpenAIConfig)

	var g gate.Gate
	if conf.GateConfig.Url != "" {
		g = gate.NewHttpGate(conf.GateConfig.Url)
	} else {
		g = gate.NewAllowAllGate()
	}

	eng := engine.New(storage, sender, generator, g, inbox, engine.Config{
		PollInterval: time.Duration(conf.PollIntervalSeconds) * time.Second,
		SettleDelay:  time.Duration(conf.SettleDelayMs) * time.Millisecond,
	})

	httpServer, err := rest.NewServer(conf.HttpPort, storage, eng)
	if err != nil {
		return nil, err
	}

	return &Agent{
		Config:     conf,
		storage:    storage,
		engine:     eng,
		httpServer: httpServer,
	}, nil
}

func (a *Agent) Start() error {
	go func() {
		if err := a.httpServer.Start(); err != nil {
			logger.Error("http server stopped")
		}
	}()
	a.engine.StartPolling()
	return nil
}

func (a *Agent) Shutdown() error {
	a.engine.StopPolling()
	if err := a.httpServer.Stop(); err != nil {
		return err
	}
	a.engine.Wait()
	return nil
}
