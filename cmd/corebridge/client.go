package main

import (
	"context"
	"fmt"

	"github.com/halver/corebridge/pkg/client"
)

func newAPIClient(flags *ClientFlags) *client.Client {
	cfg := client.DefaultConfig()
	if flags.APIUrl != "" {
		cfg.BaseURL = flags.APIUrl
	}
	if flags.APITimeout > 0 {
		cfg.Timeout = flags.APITimeout
	}
	return client.New(cfg)
}

func runStatus(flags *ClientFlags) error {
	c := newAPIClient(flags)
	ctx := context.Background()
	if !c.IsReachable(ctx) {
		return fmt.Errorf("daemon not reachable - start it first with 'corebridge serve'")
	}
	resp, err := c.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", resp.Status.Title, resp.Status.Body)
	fmt.Printf("  can_start: %v  can_stop: %v  exit_requested: %v\n",
		resp.Status.CanStart, resp.Status.CanStop, resp.Status.ExitRequested)
	fmt.Printf("  service registered: %v  shutdown: %s\n", resp.Registered, resp.Shutdown)
	return nil
}

func runSignal(flags *ClientFlags, what string) error {
	c := newAPIClient(flags)
	ctx := context.Background()
	if !c.IsReachable(ctx) {
		return fmt.Errorf("daemon not reachable - start it first with 'corebridge serve'")
	}
	var err error
	switch what {
	case "start":
		err = c.StartNode(ctx)
	case "stop":
		err = c.StopNode(ctx)
	case "exit":
		err = c.ExitNode(ctx)
	case "shutdown":
		err = c.Shutdown(ctx)
	default:
		return fmt.Errorf("unknown command %q", what)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s requested\n", what)
	return nil
}
