// Package redisengine provides a recordstore.KeyValueStorage backed by Redis.
//
// Items are plain Redis strings. A key prefix separates several bookshelves sharing one Redis database.
package redisengine
