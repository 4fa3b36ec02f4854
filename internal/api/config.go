package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/alvinbaena/cybershield/internal/util"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT" validate:"required"`
	SelfTLS          bool          `mapstructure:"SELF_TLS" validate:"required_without_all=TLSCert TLSKey"`
	TLSCert          string        `mapstructure:"TLS_CERT" validate:"required_if=SelfTLS false,required_with=TLSKey"`
	TLSKey           string        `mapstructure:"TLS_KEY" validate:"required_if=SelfTLS false,required_with=TLSCert"`
	Debug            bool          `mapstructure:"DEBUG"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL" validate:"required"`
	JWTSecret        string        `mapstructure:"JWT_SECRET" validate:"required,min=32"`
	BreachSource     string        `mapstructure:"BREACH_SOURCE" validate:"oneof=remote dir"`
	BreachAPIURL     string        `mapstructure:"BREACH_API_URL" validate:"omitempty,url"`
	BreachMirrorDir  string        `mapstructure:"BREACH_MIRROR_DIR" validate:"required_if=BreachSource dir"`
	BreachPadding    bool          `mapstructure:"BREACH_PADDING"`
	BreachCacheBytes int64         `mapstructure:"BREACH_CACHE_BYTES" validate:"gte=0"`
	BreachCacheTTL   time.Duration `mapstructure:"BREACH_CACHE_TTL"`
	LookupTimeout    time.Duration `mapstructure:"LOOKUP_TIMEOUT" validate:"gt=0"`
	CohereAPIKey     string        `mapstructure:"COHERE_API_KEY"`
	VirusTotalAPIKey string        `mapstructure:"VIRUSTOTAL_API_KEY"`
	DojahAPIKey      string        `mapstructure:"DOJAH_API_KEY"`
}

// flag name -> config key, for the flags of the serve command
var flagKeys = map[string]string{
	"port":     "PORT",
	"self-tls": "SELF_TLS",
	"tls-cert": "TLS_CERT",
	"tls-key":  "TLS_KEY",
}

func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		fv := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch fv.Kind() {
		case reflect.Struct:
			bindEnvs(v, fv.Interface(), append(parts, tv)...)
		default:
			_ = v.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "required_without_all":
		return fmt.Sprintf("This field is required if fields [%s] are missing", util.ToScreamingSnakeCase(fe.Param()))
	case "required_if":
		return fmt.Sprintf("This field is required if %s", util.ToScreamingSnakeCase(fe.Param()))
	case "required_with":
		return fmt.Sprintf("This is field requires the presence of %s", util.ToScreamingSnakeCase(fe.Param()))
	case "min":
		return fmt.Sprintf("This field must be at least %s characters long", fe.Param())
	case "oneof":
		return fmt.Sprintf("This field must be one of [%s]", fe.Param())
	case "url":
		return "This field must be a valid URL"
	case "gt", "gte":
		return "This field must be a positive value"
	}
	return fe.Error() // default error
}

// LoadConfig reads the configuration from the environment. Flags that were set on the command
// line take precedence.
func LoadConfig(flags *pflag.FlagSet) (config Config, err error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetDefault("PORT", "3100")
	v.SetDefault("BREACH_SOURCE", "remote")
	v.SetDefault("BREACH_CACHE_BYTES", 64<<20)
	v.SetDefault("BREACH_CACHE_TTL", time.Hour)
	v.SetDefault("LOOKUP_TIMEOUT", 10*time.Second)

	// This is to not require a config file to unmarshal Envs in a struct
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	bindEnvs(v, Config{})

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err = v.BindPFlag(key, f); err != nil {
					return
				}
			}
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	if err = validator.New().Struct(&config); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			var msgs []string
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s: %s", util.ToScreamingSnakeCase(fe.Field()), msgForTag(fe)))
			}
			err = errors.New(strings.Join(msgs, ". "))
		}
		return
	}

	return
}
