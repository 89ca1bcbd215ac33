package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mqttC "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/bridge"
	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/config"
	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/metrics"
	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/mqtt"
	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/tandem"
	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/wtec"
)

var (
	logger  *zap.SugaredLogger
	version = "unknown"
)

func runBridge() {
	l, _ := zap.NewProduction()
	logger = l.Sugar().Named("tandem_bridge")
	defer logger.Sync()
	logger.Infof("Running bridge version: %s", version)

	bridgeConfig, err := config.Load()
	if err != nil {
		logger.Fatalf("Error loading config: %s", err)
	}

	bindings, err := bridge.Bind(bridgeConfig.SourceURLs, bridgeConfig.TandemURLs)
	if err != nil {
		logger.Fatalf("Error binding sources to destinations: %s", err)
	}
	logger.Infof("Polling %d bindings every %s", len(bindings), bridgeConfig.PollInterval)

	m := metrics.New(prometheus.DefaultRegisterer)
	m.Bindings.Set(float64(len(bindings)))

	reader := wtec.NewClient(bridgeConfig.User, bridgeConfig.Password, bridgeConfig.RequestTimeout)
	writer := tandem.NewClient(bridgeConfig.RequestTimeout)

	var mirror bridge.Mirror
	var mosquittoClient mqtt.MqttClient
	mirrorEnabled := bridgeConfig.Mosquitto.Domain != ""
	if mirrorEnabled {
		mosquittoClient = configureMosquittoClient(bridgeConfig.Mosquitto)
		if err := mosquittoClient.Connect(); err != nil {
			logger.Fatalf("error connecting to mosquitto server: %s", err)
		}
		mirror = mosquittoClient
	}

	poller := bridge.NewPoller(bindings, reader, writer, mirror, bridgeConfig.PollInterval, logger, m)

	webServer := newWebServer(bridgeConfig.Port, poller)
	go func() {
		if err := webServer.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting web server: %s", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		logger.Info("SIGTERM received, cleaning up")
		if mirrorEnabled {
			mosquittoClient.Cleanup()
		}
		cancel()
	}()

	poller.Run(ctx)
}

func configureMosquittoClient(cfg config.MosquittoConfig) mqtt.MqttClient {
	mosquittoProtocol := "mqtts"
	if cfg.Protocol != "" {
		mosquittoProtocol = cfg.Protocol
	}
	mosquittoAddr := fmt.Sprintf("%s://%s:%s@%s:1883", mosquittoProtocol, cfg.User, cfg.Password, cfg.Domain)

	insecureSkipVerify := false
	return mqtt.NewMQTTClient(mosquittoAddr, insecureSkipVerify, func(client mqttC.Client) {
		logger.Info("Connected to mosquitto server")
	}, func(client mqttC.Client, err error) {
		logger.Warnf("Connection to mosquitto server lost: %v", err)
	}, func(mqttC.Client, *mqttC.ClientOptions) {
		logger.Info("Bridge client is reconnecting")
	})
}
