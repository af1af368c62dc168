package reconnection

import pkglifecycle "github.com/srediag/plugin-reconnect/pkg/lifecycle"

var instance pkglifecycle.Singleton[*Supervisor]

// GetInstance returns the process-wide supervisor, building and starting it on
// the first call. Later calls return the same supervisor (or the same
// construction error) and ignore their arguments.
func GetInstance(cfg *Config, opts ...Option) (*Supervisor, error) {
	return getInstance(&instance, cfg, opts...)
}

func getInstance(holder *pkglifecycle.Singleton[*Supervisor], cfg *Config, opts ...Option) (*Supervisor, error) {
	return holder.Get(func() (*Supervisor, error) {
		s, err := New(cfg, opts...)
		if err != nil {
			return nil, err
		}
		if err := s.Start(); err != nil {
			return nil, err
		}
		return s, nil
	})
}
