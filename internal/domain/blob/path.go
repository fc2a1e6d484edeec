package blob

import (
	"fmt"
	"net/url"
	"strings"

	"lemonpunch/internal/domain/record"
)

// CheckPath проверяет, что путь относительный, без "..", и лежит в
// пространстве владельца <owner>/...
func CheckPath(owner record.SessionID, p string) error {
	if p == "" || strings.HasPrefix(p, "/") || strings.ContainsAny(p, "\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	segments := strings.Split(p, "/")
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
	}
	if len(segments) < 2 || owner == "" || segments[0] != owner.String() {
		return fmt.Errorf("%w: %q", ErrForbiddenPath, p)
	}
	return nil
}

// PublicURL строит ссылку на скачивание блоба
func PublicURL(base, p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.TrimRight(base, "/") + "/files/" + strings.Join(segments, "/")
}
