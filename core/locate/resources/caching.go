package resources

import (
	"os"
	"path"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/textshaping/core"
)

// DefaultAppKey is used as the application key if none is configured.
const DefaultAppKey = "textshaping"

func appKey(conf schuko.Configuration) string {
	if conf == nil {
		return DefaultAppKey
	}
	key := conf.GetString("app-key")
	tracer().Debugf("config[%s] = %s", "app-key", key)
	if key == "" {
		tracer().Infof("application key is not set, using %q", DefaultAppKey)
		return DefaultAppKey
	}
	return key
}

// CacheDirPath checks and possibly creates a folder in the user's cache
// directory. The base cache directory is taken from `os.UserCacheDir()`, plus
// an application specific key, taken as `app-key` from the configuration.
// Clients may specify a sequence of folder names, which will be appended to
// the base cache path. Non-existing sub-folders will be created as necessary
// (with permissions 755).
func CacheDirPath(conf schuko.Configuration, subfolders ...string) (string, error) {
	cachedir, err := os.UserCacheDir()
	if err != nil {
		return "", core.WrapError(err, core.EMISSING, "user cache directory not set")
	}
	subs := path.Join(subfolders...)
	cachedir = path.Join(cachedir, appKey(conf), subs)
	tracer().Infof("caching in %s", cachedir)
	if _, err = os.Stat(cachedir); os.IsNotExist(err) {
		if err = os.MkdirAll(cachedir, 0755); err != nil {
			return "", core.WrapError(err, core.EINVALID, "cache directory cannot be created: %s", cachedir)
		}
	}
	return cachedir, nil
}
