package serviceiface

// Service is implemented by every long-lived component managed by the app
// manager (auth, warranty, gateway, cron, resource monitor). Start must not
// block; listeners run on their own goroutines. Stop releases tickers and
// channels so the process can exit cleanly.
type Service interface {
	Name() string
	Start() error
	Stop() error
}
