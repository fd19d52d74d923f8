package main

import (
	"encoding/base64"
	"flag"
	"os"
	"strings"
	"syscall"
	"time"

	"git.fiblab.net/general/common/v2/signalutil"
	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/task"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/config"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/server"
)

var (
	// 本程序监听的RPC地址
	listenAddr = flag.String("listen", ":51102", "RPC listening address")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")

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

	log = logrus.WithField("module", "citizen-sim")
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
		log.Panic("config file or config data must be specified")
	}
	c, err := config.Parse(file)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	log.Infof("%+v", c)

	t, err := task.NewContext(c)
	if err != nil {
		log.Panicf("task init err: %v", err)
	}

	srv := server.New(*listenAddr)
	t.Register(srv)
	go func() {
		if err := srv.Serve(); err != nil {
			log.Panicf("server err: %v", err)
		}
	}()
	host := *listenAddr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	if err := task.WaitForServerReady("http://"+host, 10, 500*time.Millisecond); err != nil {
		log.Panic(err)
	}

	// 收到退出信号后在当前步结束时停止
	signalutil.StartExitBySignal([]os.Signal{syscall.SIGINT, syscall.SIGTERM}, func() {
		log.Warn("received exit signal, stopping")
		t.Stop()
	})

	t.Run()
	srv.Close()
}
