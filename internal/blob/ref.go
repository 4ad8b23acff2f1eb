package blob

import (
	"net/url"
	"strings"
)

// s3Marker is the host label that separates the bucket name from the rest of
// a virtual-hosted S3 URL, e.g. https://mybucket.s3.eu-west-1.amazonaws.com/k.
const s3Marker = ".s3."

// ParseObjectURL resolves a previously issued object URL back into its
// (bucket, key) pair so the object can be deleted later.
//
// Missing pieces come back as empty strings, never as an error: a host
// without the S3 marker yields no bucket (the caller falls back to its
// configured default), an empty path yields no key, and an unparsable URL
// yields neither. Blob cleanup is best-effort, so none of these are fatal.
func ParseObjectURL(raw string) (bucket, key string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", ""
	}

	host := u.Hostname()
	if i := strings.Index(host, s3Marker); i > 0 {
		bucket = host[:i]
	}

	key = strings.TrimPrefix(u.Path, "/")
	return bucket, key
}
