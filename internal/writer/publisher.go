// internal/writer/publisher.go
package writer

import (
	"errors"
	"time"

	"github.com/sm8crt/crt8/internal/monitor"
	"github.com/sm8crt/crt8/internal/status"
	wmodbus "github.com/sm8crt/crt8/internal/writer/modbus"
)

// Publisher mirrors one board's watch output into Modbus memory.
// It implements monitor.Sink.
type Publisher struct {
	data   *dataWriter
	status *statusWriter
}

var _ monitor.Sink = (*Publisher)(nil)

func newPublisher(plan Plan, cli endpointClient) *Publisher {
	return &Publisher{
		data:   &dataWriter{plan: plan, cli: cli},
		status: newStatusWriter(plan, cli),
	}
}

// Dial connects to plan.Endpoint and returns the publisher with its closer.
func Dial(plan Plan, timeout time.Duration) (*Publisher, func() error, error) {
	if plan.Endpoint == "" {
		return nil, nil, errors.New("writer: endpoint required")
	}
	if plan.Channels <= 0 || plan.Scale <= 0 {
		return nil, nil, errors.New("writer: plan needs channels and scale")
	}
	cli, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: plan.Endpoint,
		Timeout:  timeout,
	})
	if err != nil {
		return nil, nil, err
	}
	return newPublisher(plan, cli), cli.Close, nil
}

func (p *Publisher) Write(res monitor.PollResult) error {
	return p.data.Write(res)
}

// WriteStatus is a no-op when the plan has no status block.
func (p *Publisher) WriteStatus(s status.Snapshot) error {
	if p.status == nil {
		return nil
	}
	return p.status.WriteStatus(s)
}
