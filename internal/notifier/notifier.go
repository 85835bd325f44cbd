// Package notifier delivers care reminders through the carekeep tray app's
// local webhook. The tray app writes a lockfile (port|pid|secret) when it
// starts; we validate the process is actually alive before posting.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/utils"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

type Notifier struct{}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func New() *Notifier {
	return &Notifier{}
}

// ShouldRemind decides whether a reminder may fire right now: reminders
// must be enabled, the current time must be outside quiet hours, and there
// must be at least one pending instance to remind about.
func ShouldRemind(settings models.Settings, nowMinutes int, pending []models.DailyInstance) bool {
	if !settings.NotificationsEnabled || !settings.RemindersEnabled {
		return false
	}
	if len(pending) == 0 {
		return false
	}
	return !InQuietHours(settings, nowMinutes)
}

// InQuietHours reports whether the given time of day (minutes from midnight)
// falls inside the configured quiet hours. A window that ends before it
// starts wraps past midnight.
func InQuietHours(settings models.Settings, nowMinutes int) bool {
	if settings.QuietHoursStart == "" || settings.QuietHoursEnd == "" {
		return false
	}
	start, err := utils.ParseTimeToMinutes(settings.QuietHoursStart)
	if err != nil {
		return false
	}
	end, err := utils.ParseTimeToMinutes(settings.QuietHoursEnd)
	if err != nil {
		return false
	}
	if start == end {
		return false
	}
	if start < end {
		return nowMinutes >= start && nowMinutes < end
	}
	return nowMinutes >= start || nowMinutes < end
}

// DueInstances returns the pending instances whose scheduled time is within
// offsetMin minutes of now (or already past).
func DueInstances(instances []models.DailyInstance, nowMinutes, offsetMin int) []models.DailyInstance {
	var due []models.DailyInstance
	for _, inst := range instances {
		if inst.Status != constants.InstancePending {
			continue
		}
		at, err := utils.ParseTimeToMinutes(inst.ScheduledAt)
		if err != nil {
			continue
		}
		if at-nowMinutes <= offsetMin {
			due = append(due, inst)
		}
	}
	return due
}

func (n *Notifier) Notify(text string) error {
	trayAppConfigPath, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(trayAppConfigPath, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	}

	return sendNotification(port, secret, payload)
}

// GetTrayAppConfigDir returns the configuration directory used by the tray application.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// Check for settings.json to see if a custom lockfile dir is set
	settingsPath := filepath.Join(trayConfigDir, "settings.json")
	if _, err := os.Stat(settingsPath); err == nil {
		data, err := os.ReadFile(settingsPath)
		if err == nil {
			var store struct {
				Settings struct {
					LockfileDir *string `json:"lockfile_dir"`
				} `json:"settings"`
			}
			if err := json.Unmarshal(data, &store); err == nil {
				if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
					return *store.Settings.LockfileDir, nil
				}
			}
		}
	}

	return trayConfigDir, nil
}

func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errors.New("carekeep-tray is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := parts[0]
	if strings.TrimSpace(port) == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New("carekeep-tray process not running")
	}

	if !strings.HasPrefix(process.Executable(), "carekeep-tray") {
		return "", "", fmt.Errorf("process with PID %d is not carekeep-tray (is %s)", pid, process.Executable())
	}

	return port, secret, nil
}

func sendNotification(port string, secret string, payload WebhookPayload) error {
	url := fmt.Sprintf("http://127.0.0.1:%s", port)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Carekeep-Secret", secret)

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
