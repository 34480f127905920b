package filtering

// Source describes a configured blocklist or whitelist source.
type Source struct {
	ID       string
	Name     string
	Location string
	Auth     AuthConfig
}

// DisplayName returns the name used in log lines and the failure summary.
func (s Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.ID != "" {
		return s.ID
	}
	return s.Location
}

// AuthConfig defines optional authentication for a source.
type AuthConfig struct {
	Username string
	Password string
	Token    string
	Header   string
	Scheme   string
}

// ListConfig defines a blocklist or whitelist configuration entry.
type ListConfig struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Token    string `mapstructure:"token"`
	Header   string `mapstructure:"header"`
	Scheme   string `mapstructure:"scheme"`
}

// Class is the syntax class of a normalised domain.
type Class int

const (
	// Plain is an ordinary domain mapped to the null address.
	Plain Class = iota
	// Negated starts with a dot and covers the name and all its subdomains.
	Negated
	// Wildcarded contains an inner '*' label.
	Wildcarded
)

func (c Class) String() string {
	switch c {
	case Negated:
		return "negated"
	case Wildcarded:
		return "wildcarded"
	default:
		return "plain"
	}
}

// Entry is a normalised domain together with its syntax class.
type Entry struct {
	Domain string
	Class  Class
}

// ParseStats summarises list parsing results.
type ParseStats struct {
	TotalLines int
	Domains    int
	Rejected   int
	Invalid    int
}
