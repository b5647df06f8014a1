// Package redis provides a ports.Sink that keeps recent reports in a capped
// Redis list and publishes each one on a pub/sub channel.
package redis
