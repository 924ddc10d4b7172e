/*
 * Cherry - An OpenFlow Controller
 *
 * Copyright (C) 2015 Samjung Data Service, Inc. All rights reserved.
 * Kitae Kim <superkkt@sds.co.kr>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/floodlight/oftest-sub001/log"
	"github.com/floodlight/oftest-sub001/openflow"
	"github.com/floodlight/oftest-sub001/openflow/of10"
	"github.com/floodlight/oftest-sub001/openflow/of11"
	"github.com/floodlight/oftest-sub001/openflow/transceiver"

	"github.com/op/go-logging"
	"github.com/spf13/viper"
)

const (
	programName     = "ofstub"
	programVersion  = "0.1.0"
	defaultLogLevel = logging.INFO
)

var (
	logger            = logging.MustGetLogger("main")
	loggerLeveled     logging.LeveledBackend
	showVersion       = flag.Bool("version", false, "Show program version and exit")
	defaultConfigFile = flag.String("config", fmt.Sprintf("/usr/local/etc/%v.yaml", programName), "absolute path of the configuration file")
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())
	flag.Parse()
	if *showVersion {
		fmt.Printf("Version: %v\n", programVersion)
		os.Exit(0)
	}

	initConfig()
	if err := initLog(getLogLevel(viper.GetString("default.log_level"))); err != nil {
		logger.Fatalf("failed to init log: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	initSignalHandler(cancel)

	listen(ctx, viper.GetInt("default.port"))
}

func initSignalHandler(cancel context.CancelFunc) {
	go func() {
		c := make(chan os.Signal, 5)
		signal.Notify(c, syscall.SIGTERM, syscall.SIGINT)

		s := <-c
		logger.Warningf("Shutting down by %v...", s)
		cancel()
		// Timeout for cancelation
		time.Sleep(5 * time.Second)
		os.Exit(0)
	}()
}

func initLog(level logging.Level) error {
	var backend logging.Backend
	if viper.GetBool("default.syslog") {
		var err error
		backend, err = log.NewSyslog(programName)
		if err != nil {
			return err
		}
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	backend = logging.NewBackendFormatter(backend, logging.MustStringFormatter(`%{level}: %{shortpkg}.%{shortfunc}: %{message}`))

	loggerLeveled = logging.AddModuleLevel(backend)
	// Set log level for all modules
	loggerLeveled.SetLevel(level, "")
	logging.SetBackend(loggerLeveled)

	return nil
}

func getLogLevel(level string) logging.Level {
	level = strings.ToUpper(level)
	ret, err := logging.LogLevel(level)
	if err != nil {
		logger.Infof("invalid log level=%v, defaulting to %v..", level, defaultLogLevel)
		return defaultLogLevel
	}

	return ret
}

func listen(ctx context.Context, port int) {
	type KeepAliver interface {
		SetKeepAlive(keepalive bool) error
		SetKeepAlivePeriod(d time.Duration) error
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%v", port))
	if err != nil {
		logger.Errorf("failed to listen on %v port: %v", port, err)
		return
	}
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				logger.Debug("terminating the main listener loop...")
				return
			default:
			}
			logger.Errorf("failed to accept a new connection: %v", err)
			continue
		}
		logger.Infof("new device is connected from %v", conn.RemoteAddr())

		if v, ok := conn.(KeepAliver); ok {
			if err := v.SetKeepAlive(true); err == nil {
				v.SetKeepAlivePeriod(time.Duration(5) * time.Second)
			} else {
				logger.Errorf("failed to enable socket keepalive: %v", err)
			}
		}
		go serve(ctx, conn)
	}
}

func serve(ctx context.Context, conn net.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t := transceiver.NewTransceiver(transceiver.NewStream(conn, 0x10000), transceiverConfig())
	defer t.Close()
	go func() {
		if err := t.Run(ctx); err != nil {
			logger.Errorf("device %v: %v", conn.RemoteAddr(), err)
		}
		cancel()
	}()

	select {
	case <-ctx.Done():
		return
	case <-t.Negotiated():
	}
	_, version := t.Version()

	for _, req := range initialQueries(version) {
		replies, err := t.Transact(ctx, req)
		if err != nil {
			logger.Errorf("device %v: failed to query %T: %v", conn.RemoteAddr(), req, err)
			return
		}
		for _, v := range replies {
			logger.Infof("device %v: %v", conn.RemoteAddr(), openflow.Dump(v))
		}
	}

	// Dump every asynchronous message until the connection is closed.
	for {
		msg, err := t.PollAny(ctx)
		if err != nil {
			logger.Infof("device %v is disconnected: %v", conn.RemoteAddr(), err)
			return
		}
		logger.Infof("device %v: %v", conn.RemoteAddr(), openflow.Dump(msg))
	}
}

// initialQueries returns the requests sent to a switch right after the negotiation.
func initialQueries(version uint8) []openflow.Message {
	switch version {
	case of10.Version:
		return []openflow.Message{
			of10.NewFeaturesRequest(0),
			of10.NewDescStatsRequest(0),
			of10.NewGetConfigRequest(0),
			of10.NewBarrierRequest(0),
		}
	case of11.Version:
		return []openflow.Message{
			of11.NewFeaturesRequest(0),
			of11.NewDescStatsRequest(0),
			of11.NewGetConfigRequest(0),
			of11.NewBarrierRequest(0),
		}
	default:
		return nil
	}
}
