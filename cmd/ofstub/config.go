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
	"fmt"
	"strings"

	"github.com/floodlight/oftest-sub001/openflow/of10"
	"github.com/floodlight/oftest-sub001/openflow/of11"
	"github.com/floodlight/oftest-sub001/openflow/transceiver"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var versionNames = map[string]uint8{
	"1.0": of10.Version,
	"1.1": of11.Version,
}

func initConfig() {
	viper.SetConfigFile(*defaultConfigFile)
	setDefaults()
	// Read the config file.
	if err := viper.ReadInConfig(); err != nil {
		logger.Fatalf("failed to read the config file: %v", err)
	}
	// Watching and re-reading config file whenever it changes.
	viper.OnConfigChange(func(e fsnotify.Event) {
		// Ignore the WRITE operation to avoid reading empty config.
		if e.Op != fsnotify.Write {
			return
		}

		if loggerLeveled != nil {
			// Set log level for all modules
			loggerLeveled.SetLevel(getLogLevel(viper.GetString("default.log_level")), "")
		}
	})
	viper.WatchConfig()
	if err := validateConfig(); err != nil {
		logger.Fatalf("failed to validate the configuration: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("default.port", 6633)
	viper.SetDefault("default.log_level", "info")
	viper.SetDefault("default.syslog", false)
	viper.SetDefault("default.versions", "1.0, 1.1")
	viper.SetDefault("switch.echo_interval", "10s")
	viper.SetDefault("switch.read_timeout", "1s")
	viper.SetDefault("switch.max_pending", 256)
	viper.SetDefault("switch.queue_size", 4096)
}

func validateConfig() error {
	if port := viper.GetInt("default.port"); port <= 0 || port > 0xFFFF {
		return errors.New("invalid default.port")
	}
	if len(viper.GetString("default.log_level")) == 0 {
		return errors.New("invalid default.log_level")
	}
	if _, err := parseVersions(viper.GetString("default.versions")); err != nil {
		return errors.Wrap(err, "invalid default.versions")
	}
	echo := viper.GetDuration("switch.echo_interval")
	if echo <= 0 {
		return errors.New("invalid switch.echo_interval")
	}
	// The reader wakes up on every read timeout to check the echo interval.
	if timeout := viper.GetDuration("switch.read_timeout"); timeout <= 0 || timeout >= echo {
		return errors.New("invalid switch.read_timeout: it should be positive and less than switch.echo_interval")
	}
	if viper.GetInt("switch.max_pending") <= 0 {
		return errors.New("invalid switch.max_pending")
	}
	if viper.GetInt("switch.queue_size") <= 0 {
		return errors.New("invalid switch.queue_size")
	}

	return nil
}

// parseVersions converts a comma separated list of protocol versions such as "1.0, 1.1".
func parseVersions(s string) ([]uint8, error) {
	// Remove spaces, and then split it using comma
	tokens := strings.Split(strings.Replace(s, " ", "", -1), ",")

	result := make([]uint8, 0, len(tokens))
	for _, v := range tokens {
		if len(v) == 0 {
			continue
		}
		version, ok := versionNames[v]
		if !ok {
			return nil, fmt.Errorf("unknown OpenFlow version: %v", v)
		}
		result = append(result, version)
	}
	if len(result) == 0 {
		return nil, errors.New("empty OpenFlow version")
	}

	return result, nil
}

func transceiverConfig() transceiver.Config {
	// Already validated by validateConfig.
	versions, _ := parseVersions(viper.GetString("default.versions"))

	return transceiver.Config{
		Versions:     versions,
		EchoInterval: viper.GetDuration("switch.echo_interval"),
		ReadTimeout:  viper.GetDuration("switch.read_timeout"),
		MaxPending:   viper.GetInt("switch.max_pending"),
		QueueSize:    viper.GetInt("switch.queue_size"),
	}
}
