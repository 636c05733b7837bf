package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/MrJJimenez/ionctl/internal/config"
	"github.com/MrJJimenez/ionctl/internal/env"
	"github.com/MrJJimenez/ionctl/internal/network"
)

type ProxiesCmd struct {
	Check ProxyCheckCmd `cmd:"" help:"Validate proxies against the API or another URL."`
}

type ProxyCheckCmd struct {
	Target  string `help:"Target URL. Defaults to the configured API URL."`
	Timeout int    `help:"Timeout in seconds." default:"15"`
}

type ProxyCheckResult struct {
	Proxy     string `json:"proxy"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (p *ProxyCheckCmd) Run(ctx context.Context, e *env.Environment, cli *CLI) error {
	proxies := config.LoadProxies(cli.Proxy, e.Config.Config)
	if len(proxies) == 0 {
		return fmt.Errorf("no proxies configured")
	}
	target := p.Target
	if target == "" {
		target = e.Config.Config.URLs.API
	}

	results := make([]ProxyCheckResult, 0, len(proxies))
	task := e.Tasks.Next(fmt.Sprintf("Checking %d proxies", len(proxies)))
	for _, proxy := range proxies {
		task.Msg("Checking " + proxy)
		results = append(results, p.check(ctx, proxy, target))
	}
	task.Succeed()

	return writeProxyResults(e, results)
}

func (p *ProxyCheckCmd) check(ctx context.Context, proxy, target string) ProxyCheckResult {
	result := ProxyCheckResult{Proxy: proxy, Status: "error"}
	rotator, err := network.NewRotator([]string{proxy}, 5*time.Minute)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	client, err := network.NewClient(target, rotator)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req, err := fhttp.NewRequest(fhttp.MethodGet, target, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	resp, err := doWithTimeout(ctx, client, req, time.Duration(p.Timeout)*time.Second)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	_ = resp.Body.Close()

	result.LatencyMS = time.Since(start).Milliseconds()
	result.Status = fmt.Sprintf("%d", resp.StatusCode)
	return result
}

func doWithTimeout(ctx context.Context, client network.Doer, req *fhttp.Request, timeout time.Duration) (*fhttp.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.Do(req.WithContext(ctx))
}

func writeProxyResults(e *env.Environment, results []ProxyCheckResult) error {
	if e.Flags.JSON {
		enc := json.NewEncoder(e.Log)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	tw := tabwriter.NewWriter(e.Log, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "proxy\tstatus\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", res.Proxy, res.Status, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}
