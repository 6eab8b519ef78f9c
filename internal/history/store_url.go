package history

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const defaultValkeyPort = "6379"

type storeConnInfo struct {
	addr     string
	username string
	password string
	selectDB int
	useTLS   bool
}

// parseStoreURL 은 redis://, rediss:// URL 또는 host[:port] 주소를 해석한다.
func parseStoreURL(raw string) (storeConnInfo, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return storeConnInfo{}, errors.New("history store url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		return parseStoreAddr(trimmed)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return storeConnInfo{}, fmt.Errorf("parse url: %w", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "redis" && scheme != "rediss" && scheme != "valkey" && scheme != "valkeys" {
		return storeConnInfo{}, fmt.Errorf("unsupported history store scheme: %s", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return storeConnInfo{}, errors.New("history store host missing")
	}
	port := parsed.Port()
	if port == "" {
		port = defaultValkeyPort
	}

	selectDB := 0
	if path := strings.TrimPrefix(parsed.Path, "/"); path != "" {
		db, err := strconv.Atoi(path)
		if err != nil || db < 0 {
			return storeConnInfo{}, fmt.Errorf("invalid history store db: %q", path)
		}
		selectDB = db
	}

	info := storeConnInfo{
		addr:     net.JoinHostPort(host, port),
		selectDB: selectDB,
		useTLS:   scheme == "rediss" || scheme == "valkeys",
	}
	if parsed.User != nil {
		info.username = parsed.User.Username()
		info.password, _ = parsed.User.Password()
	}
	return info, nil
}

func parseStoreAddr(addr string) (storeConnInfo, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		var addrErr *net.AddrError
		if !errors.As(err, &addrErr) {
			return storeConnInfo{}, fmt.Errorf("invalid history store address: %w", err)
		}
		switch addrErr.Err {
		case "missing port in address":
			host = strings.TrimSuffix(strings.TrimPrefix(addr, "["), "]")
			port = defaultValkeyPort
		case "too many colons in address":
			host = addr
			port = defaultValkeyPort
		default:
			return storeConnInfo{}, fmt.Errorf("invalid history store address: %w", err)
		}
	}
	if strings.TrimSpace(host) == "" {
		return storeConnInfo{}, errors.New("history store host missing")
	}
	return storeConnInfo{addr: net.JoinHostPort(host, port)}, nil
}
