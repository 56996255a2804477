package middleware

import (
	"net/http"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/dengeterapi/clinic-server-go/internal/config"
	"github.com/dengeterapi/clinic-server-go/internal/redis"
)

const contactLimitWindow = 60 * time.Second

var contactLimitScript = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

local windowStart = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', windowStart)

local count = redis.call('ZCARD', key)

if count >= limit then
    return {0, 0}
end

redis.call('ZADD', key, now, now .. '-' .. math.random())
redis.call('EXPIRE', key, window + 10)

return {1, limit - count - 1}
`)

// ContactRateLimitMiddleware throttles public intake submissions per
// client IP, backed by redis so the limit survives restarts and holds
// across instances. Redis trouble fails open.
type ContactRateLimitMiddleware struct {
	client *redis.Client
	limit  int
}

func NewContactRateLimitMiddleware(client *redis.Client) *ContactRateLimitMiddleware {
	return &ContactRateLimitMiddleware{
		client: client,
		limit:  config.ContactRateLimitPerMin,
	}
}

func (m *ContactRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			ip = forwarded
		}

		allowed, remaining := m.check(r, ip)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			log.Warn().Str("ip", ip).Msg("contact form rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Çok fazla istek gönderildi. Lütfen biraz bekleyin.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *ContactRateLimitMiddleware) check(r *http.Request, ip string) (allowed bool, remaining int) {
	now := time.Now().Unix()
	key := redis.ContactLimitKey(ip)

	result, err := contactLimitScript.Run(
		r.Context(), m.client.Client, []string{key},
		now, int64(contactLimitWindow.Seconds()), m.limit,
	).Int64Slice()
	if err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("redis contact limit check failed, allowing request")
		return true, m.limit - 1
	}

	if len(result) != 2 {
		log.Warn().Str("ip", ip).Msg("unexpected redis contact limit result")
		return true, m.limit - 1
	}

	return result[0] == 1, int(result[1])
}
