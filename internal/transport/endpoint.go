package transport

import "fmt"

// Well-known logical service names announced by the controller.
const (
	ServiceCommand  = "command"
	ServiceStatus   = "status"
	ServiceError    = "error"
	ServiceHalrcomp = "halrcomp"
	ServiceHalrcmd  = "halrcmd"
)

// Endpoint describes where a logical service can be reached. Endpoints come
// from an external discovery source; the engine only compares them.
type Endpoint struct {
	Service  string `yaml:"service" json:"service"`
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	Address  string `yaml:"address" json:"address"`
	Port     int    `yaml:"port" json:"port"`
	DSN      string `yaml:"dsn,omitempty" json:"dsn,omitempty"`
	Instance string `yaml:"instance,omitempty" json:"instance,omitempty"`
}

// ConnString returns the DSN, derived from address and port when unset.
func (e Endpoint) ConnString() string {
	if e.DSN != "" {
		return e.DSN
	}
	return fmt.Sprintf("tcp://%s:%d", e.Address, e.Port)
}

// Stale reports whether a service opened for e must be replaced to reach
// other. Only the connection string matters.
func (e Endpoint) Stale(other Endpoint) bool {
	return e.ConnString() != other.ConnString()
}

func (e Endpoint) String() string {
	return e.Service + "@" + e.ConnString()
}
