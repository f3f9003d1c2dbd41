package transport

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
	"h12.io/socks"
)

type dialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// socks5Dialer hands the target hostname to the proxy, so name resolution
// happens on the proxy side. timeout bounds the TCP dial and the SOCKS
// handshake together.
func socks5Dialer(proxyURL *url.URL, forward *net.Dialer, timeout time.Duration) (dialContextFunc, error) {
	var auth *proxy.Auth
	if proxyURL.User != nil {
		pass, _ := proxyURL.User.Password()
		auth = &proxy.Auth{
			User:     proxyURL.User.Username(),
			Password: pass,
		}
	}

	d, err := proxy.SOCKS5("tcp", proxyURL.Host, auth, forward)
	if err != nil {
		return nil, err
	}

	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("socks5 dialer for %s is not context aware", proxyURL.Host)
	}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return cd.DialContext(ctx, network, addr)
	}, nil
}

// socks4Dialer wraps the blocking h12.io/socks dial func so that it honours
// ctx cancellation.
func socks4Dialer(scheme string, proxyURL *url.URL, timeout time.Duration) dialContextFunc {
	uri := fmt.Sprintf("%s://%s?timeout=%s", scheme, proxyURL.Host, timeout)
	if proxyURL.User != nil {
		uri = fmt.Sprintf("%s://%s@%s?timeout=%s", scheme, proxyURL.User.Username(), proxyURL.Host, timeout)
	}

	dial := socks.Dial(uri)

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}

		done := make(chan dialResult, 1)
		go func() {
			conn, err := dial(network, addr)
			done <- dialResult{conn: conn, err: err}
		}()

		select {
		case <-ctx.Done():
			go func() {
				if r := <-done; r.conn != nil {
					_ = r.conn.Close()
				}
			}()

			return nil, ctx.Err()
		case r := <-done:
			return r.conn, r.err
		}
	}
}
