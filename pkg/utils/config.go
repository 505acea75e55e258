package utils

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

//EnvPrefix prefixes environment variables overriding the configuration file, FT_HTTP_PORT overrides http.port
const EnvPrefix = "FT"

//SetConfigDefaults registers a default for every configuration key
func SetConfigDefaults() {
	viper.SetDefault("log.level", "info")

	viper.SetDefault("directory.root", "./data")
	viper.SetDefault("directory.uploads", "./data/uploads")
	viper.SetDefault("directory.outputs", "./data/outputs")
	viper.SetDefault("directory.temp", "./data/temp")

	viper.SetDefault("detector.python", "python3")
	viper.SetDefault("detector.script", "./detector/serve.py")

	viper.SetDefault("video.ffmpeg", "ffmpeg")
	viper.SetDefault("video.codec", RawVideoCodec)
	viper.SetDefault("video.max_frames", MaxFrames)
	viper.SetDefault("video.prefetch", 8)
	viper.SetDefault("video.chart", true)
	viper.SetDefault("video.motion_compensation", true)

	viper.SetDefault("calibration.frames", 30)
	viper.SetDefault("calibration.stride", 5)

	viper.SetDefault("http.port", "8080")
	viper.SetDefault("http.cors_origins", []string{"*"})
	viper.SetDefault("http.rate_per_minute", 6)
}

//LoadConfig reads configFile (or config.yaml from the working directory when empty) on top of the defaults.
//A missing default config file is not an error, environment variables and defaults are enough to run.
func LoadConfig(configFile string) error {
	SetConfigDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "LoadConfig: could not read config file")
	}
	return nil
}

//DataDirs returns every directory the configuration names
func DataDirs() []string {
	return []string{
		viper.GetString("directory.root"),
		viper.GetString("directory.uploads"),
		viper.GetString("directory.outputs"),
		viper.GetString("directory.temp"),
	}
}
