package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// mustBind ties a flag to a viper key. Binding only fails for a nil flag,
// which is a programming error.
func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
