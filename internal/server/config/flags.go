package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophreg/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-b int      bcrypt cost
//	-r string   Redis address for sessions
//	-l int      session TTL, minutes
//	-n string   session cookie name
//	-m string   gin mode
//
// os.Args is filtered with flagx.Filter first so flags owned by other
// parsers (-c/-config) do not break parsing. The minute-based durations are
// applied only when their flag is given, so finer values from the JSON or
// env layers survive.
func parseFlags(config *Config) {
	args := flagx.Filter(os.Args[1:], "-a", "-d", "-s", "-t", "-b", "-r", "-l", "-n", "-m")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity duration (in minutes)")

	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address for the session store")

	sessionTTL := fs.Int("l", int(config.SessionTTL.Minutes()), "session TTL (in minutes)")

	fs.StringVar(&config.SessionCookieName, "n", config.SessionCookieName, "session cookie name")
	fs.StringVar(&config.GinMode, "m", config.GinMode, "gin mode")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		case "l":
			config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
		}
	})
}
