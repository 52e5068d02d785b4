package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/clara-api/pkg/config"
)

// NewPool abre el pool de perfiles. Con ForceIPv4 el host se resuelve a IPv4 tanto en el
// DSN como en cada dial: en Docker suele faltar IPv6 y algunos proveedores publican solo AAAA.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	if cfg.ForceIPv4 {
		r := newIPv4Resolver()
		if ip, err := r.lookup(ctx, poolConfig.ConnConfig.Host); err == nil {
			poolConfig.ConnConfig.Host = ip
		}
		poolConfig.ConnConfig.DialFunc = r.dial
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 && cfg.MinConns <= poolConfig.MaxConns {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 15 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// ipv4Resolver prueba el resolver del sistema y, si no devuelve IPv4, un DNS público.
type ipv4Resolver struct {
	resolvers []*net.Resolver
	dialer    net.Dialer
}

func newIPv4Resolver() *ipv4Resolver {
	public := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "udp", "8.8.8.8:53")
		},
	}
	return &ipv4Resolver{resolvers: []*net.Resolver{net.DefaultResolver, public}}
}

func (r *ipv4Resolver) lookup(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", fmt.Errorf("%s es IPv6", host)
		}
		return host, nil
	}
	var lastErr error
	for _, res := range r.resolvers {
		ips, err := res.LookupIP(ctx, "ip4", host)
		if err != nil {
			lastErr = err
			continue
		}
		if len(ips) > 0 {
			return ips[0].String(), nil
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("sin IPv4 para %s", host)
	}
	return "", lastErr
}

// dial DialFunc de pgx; si no hay IPv4 cae al dial normal.
func (r *ipv4Resolver) dial(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ip, err := r.lookup(ctx, host)
	if err != nil {
		return r.dialer.DialContext(ctx, network, addr)
	}
	return r.dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}
