// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)


// Configuration for all commands, loaded from YAML
type Config struct {
	Pre   PreProcessParams  `yaml:"preprocess"`
	Reg   RegisterParams    `yaml:"register"`
	Post  PostProcessParams `yaml:"postprocess"`
	Color ColorParams       `yaml:"color"`

	Stack StackParams       `yaml:"stack"`
	Stats StatsParams       `yaml:"stats"`

	Serve struct {
		Port      int    `yaml:"port"`
		StaticDir string `yaml:"staticDir"`
	} `yaml:"serve"`

	Log struct {
		Verbose  bool   `yaml:"verbose"`
		FileName string `yaml:"fileName"`
	} `yaml:"log"`
}

// Returns a configuration with default values
func DefaultConfig() *Config {
	cfg:=&Config{
		Pre:   *NewPreProcessParams(),
		Reg:   RegisterParams{Crop:false, Workers:0},
		Post:  *NewPostProcessParams(),
		Color: *NewColorParams(),
		Stack: *NewStackParams(),
		Stats: *NewStatsParams(),
	}
	cfg.Serve.Port=8080
	cfg.Serve.StaticDir="./web/build"
	return cfg
}

// Loads configuration from a YAML file, on top of the defaults.
// A missing file yields the defaults
func LoadConfig(configPath string) (*Config, error) {
	cfg:=DefaultConfig()
	if configPath=="" { return cfg, nil }
	if _, err:=os.Stat(configPath); os.IsNotExist(err) { return cfg, nil }

	data, err:=os.ReadFile(configPath)
	if err!=nil { return nil, fmt.Errorf("error reading config file: %w", err) }
	if err:=yaml.Unmarshal(data, cfg); err!=nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// Saves the configuration to a YAML file, creating its directory if needed
func SaveConfig(cfg *Config, configPath string) error {
	if err:=os.MkdirAll(filepath.Dir(configPath), 0755); err!=nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	data, err:=yaml.Marshal(cfg)
	if err!=nil { return fmt.Errorf("error marshaling config: %w", err) }
	if err:=os.WriteFile(configPath, data, 0644); err!=nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}


// Loads a YAML list of pairwise shifts, one {dx, dy} entry per consecutive band pair
func LoadShifts(fileName string) ([]ShiftVector, error) {
	data, err:=os.ReadFile(fileName)
	if err!=nil { return nil, err }
	shifts:=[]ShiftVector{}
	if err:=yaml.Unmarshal(data, &shifts); err!=nil {
		return nil, fmt.Errorf("error parsing shifts file %s: %w", fileName, err)
	}
	return shifts, nil
}

// Saves pairwise shifts as a YAML list, so measured shifts can be reviewed and reused
func SaveShifts(shifts []ShiftVector, fileName string) error {
	data, err:=yaml.Marshal(shifts)
	if err!=nil { return err }
	return os.WriteFile(fileName, data, 0644)
}
