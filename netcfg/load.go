/*
 * MIT License
 *
 * Copyright (c) 2026 Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package netcfg

import (
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	liberr "github.com/netlayer/netlayer/errors"
)

// Load reads path (any format spf13/viper supports by extension: yaml,
// json, toml) into a Config, starting from Default() so an incomplete
// file only overrides what it names.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, liberr.CodeConfigLoad.Error(err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, liberr.CodeConfigLoad.Error(err)
	}
	return cfg, nil
}

// LoadMap decodes an already-parsed map (e.g. from a control-plane RPC
// payload) into a Config atop Default(), using spf13/cast for the
// handful of loosely-typed fields (durations expressed as strings or
// numbers) that mapstructure alone won't coerce.
func LoadMap(m map[string]any) (Config, error) {
	cfg := Default()

	v := viper.New()
	if err := v.MergeConfigMap(m); err != nil {
		return cfg, liberr.CodeConfigLoad.Error(err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, liberr.CodeConfigLoad.Error(err)
	}

	if raw, ok := m["http1"].(map[string]any); ok {
		if hrt, ok := raw["header_read_timeout"]; ok {
			if d, err := cast.ToDurationE(hrt); err == nil {
				cfg.HTTP1.HeaderReadTimeout = d
			}
		}
	}

	return cfg, nil
}
