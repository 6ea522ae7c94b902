package main

import (
	"fmt"
	"time"
)

type Config struct {
	Host           string        `env:"HOST,default=0.0.0.0"`
	Port           int           `env:"PORT,default=8080"`
	BadgerFilepath string        `env:"BADGER_FILEPATH,default=./sup-data"`
	BlugeFilepath  string        `env:"BLUGE_FILEPATH,default=./sup-index"`
	LogLevel       string        `env:"LOG_LEVEL,default=INFO"`
	LimitMessages  *int          `env:"LIMIT_MESSAGES"`
	TokenSecret    string        `env:"TOKEN_SECRET"`
	TokenDuration  time.Duration `env:"TOKEN_DURATION,default=24h"`
	// Moderation stays off unless a word list is configured.
	CensoredWordsFile string `env:"CENSORED_WORDS_FILE"`
	CensorCharacter   string `env:"CENSOR_CHARACTER,default=*"`
}

func censorRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("CENSOR_CHARACTER must be a single character, got %q", str)
	}
	return r[0], nil
}
