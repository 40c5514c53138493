package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeromicro/go-zero/core/logx"
	"gopkg.in/yaml.v2"
)

// WatchRules is the hot-reloadable part of the watcher config: which mints
// to snipe on sight and which to never touch. The file can be edited while
// a monitor is running.
type WatchRules struct {
	Targets   []string `yaml:"targets"`
	Blacklist []string `yaml:"blacklist"`
}

var (
	rulesMu    sync.RWMutex
	watchRules *WatchRules
)

func LoadYAMLConfig(path string, out interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return yaml.NewDecoder(file).Decode(out)
}

// ReloadWatchRules reads the rules file and swaps the in-memory copy.
// A missing file is not an error; the watcher just runs without rules.
func ReloadWatchRules(path string) error {
	var rules WatchRules
	if err := LoadYAMLConfig(path, &rules); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	rulesMu.Lock()
	watchRules = &rules
	rulesMu.Unlock()
	logx.Infof("watch rules reloaded: %d targets, %d blacklisted", len(rules.Targets), len(rules.Blacklist))
	return nil
}

// SetWatchRules replaces the in-memory rules outright, bypassing the file.
// The snipe command uses it to target mints given on the command line.
func SetWatchRules(rules WatchRules) {
	rulesMu.Lock()
	watchRules = &rules
	rulesMu.Unlock()
}

func GetWatchRules() WatchRules {
	rulesMu.RLock()
	defer rulesMu.RUnlock()
	if watchRules == nil {
		return WatchRules{}
	}
	return *watchRules
}

func IsBlacklisted(mint string) bool {
	rules := GetWatchRules()
	for _, m := range rules.Blacklist {
		if m == mint {
			return true
		}
	}
	return false
}

func IsTargetMint(mint string) bool {
	rules := GetWatchRules()
	for _, m := range rules.Targets {
		if m == mint {
			return true
		}
	}
	return false
}

// WatchRulesChanges reloads the rules file whenever it is rewritten.
// Blocks until the watcher fails or the events channel closes.
func WatchRulesChanges(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		logx.Errorf("resolving rules file path: %v", err)
		return
	}

	dirPath := filepath.Dir(absPath)
	fileName := filepath.Base(absPath)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logx.Errorf("creating rules file watcher: %v", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(dirPath); err != nil {
		logx.Errorf("watching rules dir %s: %v", dirPath, err)
		return
	}

	logx.Infof("watching rules file %s", absPath)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != fileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Rename|fsnotify.Create) == 0 {
				continue
			}
			// editors often rename into place; give the file a moment to land
			time.Sleep(200 * time.Millisecond)
			if _, err := os.Stat(absPath); os.IsNotExist(err) {
				continue
			}
			if err := ReloadWatchRules(absPath); err != nil {
				logx.Errorf("reloading watch rules: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logx.Errorf("rules watcher: %v", err)
		}
	}
}
