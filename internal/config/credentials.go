package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	playground "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"gopkg.in/yaml.v3"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/provider"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/validator"
)

var (
	ErrCredentialsNotFound  = errors.New("credential file not found")
	ErrCredentialsMalformed = errors.New("credential file is malformed")
	ErrCredentialsInvalid   = errors.New("credential file is invalid")
)

// FlexibleID accepts an employee id written as a JSON/YAML number or string.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = FlexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("employee_id must be a number or a string")
	}
	*id = FlexibleID(n.String())
	return nil
}

func (id *FlexibleID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("employee_id must be a number or a string")
	}
	*id = FlexibleID(strings.TrimSpace(node.Value))
	return nil
}

func (id FlexibleID) String() string {
	return string(id)
}

// Credentials is the record the user keeps next to the binary.
type Credentials struct {
	EmployeeID FlexibleID `json:"employee_id" yaml:"employee_id" validate:"required"`
	Provider   string     `json:"provider" yaml:"provider" validate:"omitempty,oneof=factorial sesame"`
	Credential string     `json:"credential" yaml:"credential" validate:"required"`
	// Cookie is the historical name of Credential.
	Cookie string `json:"cookie,omitempty" yaml:"cookie,omitempty" validate:"-"`

	BaseURL              string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	Location             string `json:"location,omitempty" yaml:"location,omitempty" validate:"omitempty,timezone"`
	BreakConfigurationID int    `json:"break_configuration_id,omitempty" yaml:"break_configuration_id,omitempty" validate:"gte=0"`
}

var (
	validate   *playground.Validate
	translator ut.Translator
)

func init() {
	validate = playground.New(playground.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}
}

// LoadCredentials reads the record at path. Files ending in .yaml or .yml
// are YAML, anything else is JSON.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (create it from config.json.template)", ErrCredentialsNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var creds Credentials
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &creds)
	default:
		err = json.Unmarshal(data, &creds)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCredentialsMalformed, path, err)
	}

	if creds.Credential == "" {
		creds.Credential = creds.Cookie
	}
	creds.Provider = strings.ToLower(strings.TrimSpace(creds.Provider))

	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCredentialsInvalid, path, err)
	}
	return &creds, nil
}

// Validate returns validator.ValidationErrors keyed by the record's field
// names.
func (c *Credentials) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make(validator.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, validator.ValidationError{
			Field:   fe.Field(),
			Message: fe.Translate(translator),
		})
	}
	return errs
}

// ProviderID resolves the configured provider, defaulting to Factorial.
func (c *Credentials) ProviderID() (provider.ID, error) {
	return provider.Parse(c.Provider)
}

// ProviderOptions merges the record's provider settings over the
// environment ones.
func (c *Credentials) ProviderOptions(pc ProviderConfig) (provider.Options, error) {
	opts := provider.Options{
		FactorialBaseURL:     pc.FactorialBaseURL,
		SesameBaseURL:        pc.SesameBaseURL,
		BreakConfigurationID: c.BreakConfigurationID,
		Timeout:              pc.HTTPTimeout,
	}
	if c.BaseURL != "" {
		opts.FactorialBaseURL = c.BaseURL
		opts.SesameBaseURL = c.BaseURL
	}
	if c.Location != "" {
		loc, err := time.LoadLocation(c.Location)
		if err != nil {
			return provider.Options{}, fmt.Errorf("%w: location: %w", ErrCredentialsInvalid, err)
		}
		opts.Location = loc
	}
	return opts, nil
}

// Request builds the schedule request for one month.
func (c *Credentials) Request(year, month int) shift.ScheduleRequest {
	return shift.ScheduleRequest{
		EmployeeID: c.EmployeeID.String(),
		Auth:       c.Credential,
		Year:       year,
		Month:      month,
	}
}
