package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type StructuredJSONConfig struct {
	App struct {
		Version      string `json:"version"`
		DatabasePath string `json:"database_path"`
	} `json:"app,omitempty"`

	Backup struct {
		Dir            string `json:"dir"`
		SettingsPath   string `json:"settings_path"`
		PasswordSecret string `json:"password_secret"`
	} `json:"backup,omitempty"`

	Secrets struct {
		Dir string `json:"dir"`
	} `json:"secrets,omitempty"`

	Log struct {
		File string `json:"file"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version:      jsonCfg.App.Version,
			DatabasePath: jsonCfg.App.DatabasePath,
		},
		Backup: Backup{
			Dir:            jsonCfg.Backup.Dir,
			SettingsPath:   jsonCfg.Backup.SettingsPath,
			PasswordSecret: jsonCfg.Backup.PasswordSecret,
		},
		Secrets: Secrets{
			Dir: jsonCfg.Secrets.Dir,
		},
		Log: Log{
			File: jsonCfg.Log.File,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}
