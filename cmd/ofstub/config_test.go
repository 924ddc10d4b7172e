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
	"testing"
	"time"

	"github.com/floodlight/oftest-sub001/openflow/of10"
	"github.com/floodlight/oftest-sub001/openflow/of11"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func TestParseVersions(t *testing.T) {
	samples := []struct {
		input    string
		expected []uint8
		fail     bool
	}{
		{"1.0", []uint8{of10.Version}, false},
		{"1.0, 1.1", []uint8{of10.Version, of11.Version}, false},
		{" 1.1 ,1.0 ", []uint8{of11.Version, of10.Version}, false},
		{"1.1,", []uint8{of11.Version}, false},
		{"", nil, true},
		{" , ", nil, true},
		{"1.3", nil, true},
	}

	for _, v := range samples {
		result, err := parseVersions(v.input)
		if v.fail {
			if err == nil {
				t.Fatalf("expected error for %q, but got %v", v.input, result)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", v.input, err)
		}
		if diff := cmp.Diff(v.expected, result); diff != "" {
			t.Fatalf("unexpected versions for %q: (-expected +actual)\n%v", v.input, diff)
		}
	}
}

func TestValidateConfig(t *testing.T) {
	samples := []struct {
		key   string
		value interface{}
		valid bool
	}{
		{"", nil, true},
		{"default.port", 0, false},
		{"default.port", 70000, false},
		{"default.log_level", "", false},
		{"default.versions", "2.0", false},
		{"switch.echo_interval", "0s", false},
		{"switch.read_timeout", "10s", false},
		{"switch.read_timeout", "0s", false},
		{"switch.max_pending", 0, false},
		{"switch.max_pending", 16, true},
		{"switch.queue_size", -1, false},
	}

	for _, v := range samples {
		viper.Reset()
		setDefaults()
		if v.key != "" {
			viper.Set(v.key, v.value)
		}
		err := validateConfig()
		if v.valid && err != nil {
			t.Fatalf("unexpected error for %v=%v: %v", v.key, v.value, err)
		}
		if !v.valid && err == nil {
			t.Fatalf("expected error for %v=%v, but got nil", v.key, v.value)
		}
	}
	viper.Reset()
}

func TestTransceiverConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	setDefaults()
	viper.Set("default.versions", "1.1")
	viper.Set("switch.echo_interval", "3s")

	c := transceiverConfig()
	if diff := cmp.Diff([]uint8{of11.Version}, c.Versions); diff != "" {
		t.Fatalf("unexpected versions: (-expected +actual)\n%v", diff)
	}
	if c.EchoInterval != 3*time.Second {
		t.Fatalf("unexpected echo interval: expected=%v, actual=%v", 3*time.Second, c.EchoInterval)
	}
	if c.ReadTimeout != time.Second {
		t.Fatalf("unexpected read timeout: expected=%v, actual=%v", time.Second, c.ReadTimeout)
	}
	if c.MaxPending != 256 {
		t.Fatalf("unexpected max pending: expected=%v, actual=%v", 256, c.MaxPending)
	}
}

func TestInitialQueries(t *testing.T) {
	for _, version := range []uint8{of10.Version, of11.Version} {
		queries := initialQueries(version)
		if len(queries) != 4 {
			t.Fatalf("unexpected number of queries: expected=4, actual=%v", len(queries))
		}
		for _, q := range queries {
			packet, err := q.MarshalBinary()
			if err != nil {
				t.Fatalf("failed to marshal %T: %v", q, err)
			}
			if packet[0] != version {
				t.Fatalf("unexpected query version: expected=%v, actual=%v", version, packet[0])
			}
		}
	}
	if queries := initialQueries(0x04); queries != nil {
		t.Fatalf("unexpected queries for an unsupported version: %v", queries)
	}
}
