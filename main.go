package main

import (
	"context"
	"encoding/base64"
	"flag"
	"os"
	"os/signal"
	"syscall"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/intersection-rl/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/intersection-rl/task"
	"github.com/tsinghua-fib-lab/intersection-rl/trace"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/config"
)

var (
	// 快照RPC监听地址，设置为空则不启动
	listenAddr = flag.String("listen", "", "snapshot RPC listening address (empty means disabled), e.g. :51102")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path (empty means all defaults)")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 决策轨迹输出路径，设置为空则不记录
	tracePath = flag.String("trace", "", "decision trace output path (empty means disabled)")
	// 相位控制方式
	controller = flag.String("controller", "q", "phase controller (q: learned policy, max_pressure: max pressure demonstrator)")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "intersection")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	// 获取配置
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Info("no config specified, use defaults")
	}
	c, err := config.Parse(file)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	log.Infof("%+v", c)

	runID := uuid.NewString()
	log = log.WithField("run_id", runID)
	log.Infof("run id %s", runID)
	opts := make([]task.Option, 0)
	switch *controller {
	case "q":
	case "max_pressure":
		opts = append(opts, task.WithController(trafficlight.NewMaxPressure()))
	default:
		log.Panicf("controller must be one of q, max_pressure, got %s", *controller)
	}
	if *tracePath != "" {
		r, err := trace.Open(*tracePath)
		if err != nil {
			log.Panicf("trace open err: %v", err)
		}
		opts = append(opts, task.WithRecorder(r))
	}

	t := task.NewContext(c, runID, opts...)
	if *listenAddr != "" {
		if _, err := t.Serve(*listenAddr); err != nil {
			t.Close()
			log.Panicf("listen %s err: %v", *listenAddr, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	t.Run(ctx)
}
