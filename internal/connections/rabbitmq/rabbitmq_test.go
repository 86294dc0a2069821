package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"walkup-counter/internal/common/config"
)

func TestConfigURL(t *testing.T) {
	c := FromApp(config.MQ{Host: "mq", Port: 5672, User: "guest", Pass: "pw", VHost: "/"})
	assert.Equal(t, "amqp://guest:pw@mq:5672/", c.URL())

	c.VHost = "counter"
	c.UseTLS = true
	assert.Equal(t, "amqps://guest:pw@mq:5672/counter", c.URL())
}
