// Command collector receives AHT20 node records and acknowledges them.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"github.com/ericogr/aht20-udp-node/pkg/collector"
)

func main() {
	listen := flag.String("listen", ":5683", "UDP address to receive records on")
	flag.Parse()
	defer glog.Flush()

	c, err := collector.Listen(*listen)
	if err != nil {
		glog.Exitf("listen %s: %v", *listen, err)
	}
	defer c.Close()
	glog.Infof("collector listening on %s", c.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := c.Serve(ctx); err != nil {
		glog.Exitf("serve: %v", err)
	}
}
