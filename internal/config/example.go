package config

import (
	"fmt"
	"os"
)

// Example is the template written by WriteExample.
const Example = `server = "webuntis-server"      # e.g. "herakles.webuntis.com"
school = "webuntis-school-name" # e.g. "FannyLGym"
username = "username"
password = "password"           # or set UNTISSTATS_PASSWORD, e.g. in a .env file
# useragent is optional, but should be given with a mail address for fairness
# so that an administrator knows whom to contact!
useragent = "untisstats (yourmail@example.com)"
# classes is optional
# 1. String => only this class will be used, e.g. "9b"
# 2. List of strings => these classes will be used, e.g. ["9b", "9d"]
# 3. not given => all classes matching ^\d+[a-z] will be used
classes = "9b"
# format is one of "xlsx", "text", "yaml"
format = "xlsx"
output_dir = "."
# cache_dir enables caching of past timetable months
# cache_dir = ".untisstats-cache"
# parallel = 1
# timezone = "Europe/Berlin"
`

// WriteExample writes the example configuration to path. An existing file is
// never overwritten.
func WriteExample(path string) error {
	if path == "" {
		path = DefaultFile
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("could not create example config '%s': %w", path, err)
	}
	if _, err := f.WriteString(Example); err != nil {
		f.Close()
		return fmt.Errorf("could not write example config '%s': %w", path, err)
	}
	return f.Close()
}
