package app

import (
    "bufio"
    "errors"
    "os"
    "strings"
)

// LoadEnvFiles loads one or more dotenv files of KEY=VALUE pairs into the
// process environment. Later files override earlier ones. Lines starting with
// '#' and blank lines are ignored, as is a leading "export ". Values are not
// expanded.
func LoadEnvFiles(paths ...string) error {
    for _, p := range paths {
        if strings.TrimSpace(p) == "" {
            continue
        }
        if err := loadEnvFile(p); err != nil {
            // Missing files are not fatal; continue to next path
            if errors.Is(err, os.ErrNotExist) {
                continue
            }
            return err
        }
    }
    return nil
}

func loadEnvFile(path string) error {
    f, err := os.Open(path)
    if err != nil {
        return err
    }
    defer f.Close()

    scanner := bufio.NewScanner(f)
    for scanner.Scan() {
        key, val, ok := parseEnvLine(scanner.Text())
        if !ok {
            continue
        }
        _ = os.Setenv(key, val)
    }
    return scanner.Err()
}

func parseEnvLine(raw string) (string, string, bool) {
    line := strings.TrimSpace(raw)
    if line == "" || strings.HasPrefix(line, "#") {
        return "", "", false
    }
    line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
    eq := strings.IndexByte(line, '=')
    if eq <= 0 {
        // ignore malformed lines silently
        return "", "", false
    }
    key := strings.TrimSpace(line[:eq])
    val := strings.TrimSpace(line[eq+1:])
    if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') {
        if end := strings.IndexByte(val[1:], val[0]); end >= 0 {
            return key, val[1 : end+1], true
        }
    }
    // unquoted values may carry a trailing " # comment"
    if i := strings.Index(val, " #"); i >= 0 {
        val = strings.TrimSpace(val[:i])
    }
    return key, val, true
}
