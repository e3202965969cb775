//go:build !windows

package console

// systemPlatform reports UTF-8 unconditionally; POSIX terminals have no
// per-process code page to switch.
type systemPlatform struct{}

func (systemPlatform) CodePages() (CodePages, error) {
	return utf8Pages, nil
}

func (systemPlatform) SetCodePages(CodePages) error {
	return nil
}
