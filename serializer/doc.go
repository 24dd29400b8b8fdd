// Package serializer holds serialization dialects. A dialect maps descriptor
// kinds and brands to base converter factories and owns the cache of compiled
// converters, so dialects never observe each other's state.
package serializer
