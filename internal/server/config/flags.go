package config

import (
	"flag"
	"os"
	"time"
)

// flagValues records the parsed command line plus which flags were
// actually set, so flags can override the JSON overlay without the JSON
// overlay clobbering explicit flags.
type flagValues struct {
	configFile string

	set map[string]bool

	endpointAddr      string
	databaseDSN       string
	sessionBackend    string
	sessionTTLSeconds int
	redisAddr         string
	redisPassword     string
	redisDB           int
	storageBackend    string
	folderPath        string
	s3RootUser        string
	s3RootPassword    string
	s3Bucket          string
	s3Region          string
	s3BaseEndpoint    string
}

// Supported flags:
//
//	-c/-config string  path to a JSON config file
//	-a string          HTTP bind address (e.g. ":5000")
//	-d string          PostgreSQL DSN
//	-session string    session backend: redis or memory
//	-ttl int           session TTL, seconds
//	-redis string      Redis address
//	-redis-password string
//	-redis-db int
//	-storage string    content store backend: fs, s3 or memory
//	-folder string     fs content store root directory
//	-s3-user, -s3-password, -s3-bucket, -s3-region, -s3-endpoint string
func parseFlags() *flagValues {
	fl := &flagValues{set: map[string]bool{}}

	fs := flag.NewFlagSet("server", flag.ExitOnError)

	fs.StringVar(&fl.configFile, "c", "", "path to JSON config file")
	fs.StringVar(&fl.configFile, "config", "", "path to JSON config file")

	fs.StringVar(&fl.endpointAddr, "a", "", "address and port to run server")
	fs.StringVar(&fl.databaseDSN, "d", "", "database DSN")
	fs.StringVar(&fl.sessionBackend, "session", "", "session backend (redis|memory)")
	fs.IntVar(&fl.sessionTTLSeconds, "ttl", 0, "session TTL (in seconds)")
	fs.StringVar(&fl.redisAddr, "redis", "", "redis address")
	fs.StringVar(&fl.redisPassword, "redis-password", "", "redis password")
	fs.IntVar(&fl.redisDB, "redis-db", 0, "redis database number")
	fs.StringVar(&fl.storageBackend, "storage", "", "content store backend (fs|s3|memory)")
	fs.StringVar(&fl.folderPath, "folder", "", "fs content store root")
	fs.StringVar(&fl.s3RootUser, "s3-user", "", "S3 root user")
	fs.StringVar(&fl.s3RootPassword, "s3-password", "", "S3 root password")
	fs.StringVar(&fl.s3Bucket, "s3-bucket", "", "S3 bucket")
	fs.StringVar(&fl.s3Region, "s3-region", "", "S3 region")
	fs.StringVar(&fl.s3BaseEndpoint, "s3-endpoint", "", "S3 base endpoint")

	_ = fs.Parse(os.Args[1:])

	fs.Visit(func(f *flag.Flag) { fl.set[f.Name] = true })

	return fl
}

// apply copies explicitly-set flags onto cfg.
func (fl *flagValues) apply(cfg *Config) {
	if fl.set["a"] {
		cfg.EndpointAddr = fl.endpointAddr
	}
	if fl.set["d"] {
		cfg.DatabaseDSN = fl.databaseDSN
	}
	if fl.set["session"] {
		cfg.SessionBackend = fl.sessionBackend
	}
	if fl.set["ttl"] {
		cfg.SessionTTL = time.Duration(fl.sessionTTLSeconds) * time.Second
	}
	if fl.set["redis"] {
		cfg.RedisAddr = fl.redisAddr
	}
	if fl.set["redis-password"] {
		cfg.RedisPassword = fl.redisPassword
	}
	if fl.set["redis-db"] {
		cfg.RedisDB = fl.redisDB
	}
	if fl.set["storage"] {
		cfg.StorageBackend = fl.storageBackend
	}
	if fl.set["folder"] {
		cfg.FolderPath = fl.folderPath
	}
	if fl.set["s3-user"] {
		cfg.S3RootUser = fl.s3RootUser
	}
	if fl.set["s3-password"] {
		cfg.S3RootPassword = fl.s3RootPassword
	}
	if fl.set["s3-bucket"] {
		cfg.S3Bucket = fl.s3Bucket
	}
	if fl.set["s3-region"] {
		cfg.S3Region = fl.s3Region
	}
	if fl.set["s3-endpoint"] {
		cfg.S3BaseEndpoint = fl.s3BaseEndpoint
	}
}
