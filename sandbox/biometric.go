package sandbox

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	goBioLogin "github.com/MrEthical07/goBioLogin"
	"github.com/MrEthical07/goBioLogin/async"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// Prompt is the scripted result of the next biometric prompt.
type Prompt uint8

const (
	PromptAccept Prompt = iota
	PromptCancel
	// PromptInvalid reports the credential as invalidated.
	PromptInvalid
	PromptLockout
)

func (p Prompt) String() string {
	switch p {
	case PromptCancel:
		return "cancel"
	case PromptInvalid:
		return "invalid"
	case PromptLockout:
		return "lockout"
	default:
		return "accept"
	}
}

// ParsePrompt accepts the names printed by Prompt.String.
func ParsePrompt(s string) (Prompt, bool) {
	for _, p := range []Prompt{PromptAccept, PromptCancel, PromptInvalid, PromptLockout} {
		if strings.EqualFold(s, p.String()) {
			return p, true
		}
	}
	return PromptAccept, false
}

// BiometricDevice implements goBioLogin.BiometricSDK.
//
// Enablement is stored per user in Redis along with a fingerprint of the
// enrolled templates at enable time. Any enrollment change afterwards makes
// HasCredentialChanged true for that user.
type BiometricDevice struct {
	redis   redis.UniversalClient
	prefix  string
	account *AccountService
	clock   clockwork.Clock
	latency time.Duration

	mu        sync.Mutex
	hardware  bool
	available bool
	templates map[string]struct{}
	prompts   []Prompt
}

var _ goBioLogin.BiometricSDK = (*BiometricDevice)(nil)

// NewBiometricDevice returns a device with working hardware and one enrolled
// template. Successful prompts open sessions through account.
func NewBiometricDevice(client redis.UniversalClient, account *AccountService) *BiometricDevice {
	return &BiometricDevice{
		redis:     client,
		prefix:    account.cfg.Prefix,
		account:   account,
		clock:     account.clock,
		latency:   account.cfg.Latency,
		hardware:  true,
		available: true,
		templates: map[string]struct{}{"finger-1": {}},
	}
}

func (d *BiometricDevice) enableKey(uid string) string {
	return d.prefix + ":bio:" + uid
}

/*
====================================
DEVICE CONTROLS
====================================
*/

// SetHardware installs or removes the sensor.
func (d *BiometricDevice) SetHardware(present bool) {
	d.mu.Lock()
	d.hardware = present
	d.mu.Unlock()
}

// SetAvailable marks an installed sensor as temporarily usable or not.
func (d *BiometricDevice) SetAvailable(available bool) {
	d.mu.Lock()
	d.available = available
	d.mu.Unlock()
}

// Enroll adds a template.
func (d *BiometricDevice) Enroll(name string) {
	d.mu.Lock()
	d.templates[name] = struct{}{}
	d.mu.Unlock()
}

// Unenroll removes a template.
func (d *BiometricDevice) Unenroll(name string) {
	d.mu.Lock()
	delete(d.templates, name)
	d.mu.Unlock()
}

// Templates lists enrolled template names in order.
func (d *BiometricDevice) Templates() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.templates))
	for name := range d.templates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// QueuePrompt scripts the outcomes of upcoming prompts. Unscripted prompts
// are accepted.
func (d *BiometricDevice) QueuePrompt(prompts ...Prompt) {
	d.mu.Lock()
	d.prompts = append(d.prompts, prompts...)
	d.mu.Unlock()
}

func (d *BiometricDevice) nextPrompt() Prompt {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.prompts) == 0 {
		return PromptAccept
	}
	p := d.prompts[0]
	d.prompts = d.prompts[1:]
	return p
}

// enrollmentFingerprint hashes the sorted template names.
func (d *BiometricDevice) enrollmentFingerprint() string {
	sum := sha256.Sum256([]byte(strings.Join(d.Templates(), "\n")))
	return hex.EncodeToString(sum[:])
}

// sensorError reports why a prompt cannot be shown, or nil.
func (d *BiometricDevice) sensorError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case !d.hardware:
		return sdkError(CodeNoHardware, "no biometric hardware")
	case !d.available:
		return sdkError(CodeHardwareUnavailable, "biometric hardware unavailable")
	case len(d.templates) == 0:
		return sdkError(CodeNoneEnrolled, "no biometrics enrolled")
	}
	return nil
}

// prompt shows the sensor prompt and maps its scripted outcome.
func (d *BiometricDevice) prompt() error {
	if err := d.sensorError(); err != nil {
		return err
	}
	switch d.nextPrompt() {
	case PromptCancel:
		return async.ErrCancelled
	case PromptInvalid:
		return async.ErrInvalidState
	case PromptLockout:
		return sdkError(CodeLockout, "too many attempts, try again later")
	}
	return nil
}

/*
====================================
SDK SURFACE
====================================
*/

func (d *BiometricDevice) IsSupported(context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hardware
}

func (d *BiometricDevice) IsEnabledForUser(ctx context.Context, uid string) bool {
	if uid == "" {
		return false
	}
	n, err := d.redis.Exists(ctx, d.enableKey(uid)).Result()
	return err == nil && n == 1
}

func (d *BiometricDevice) HasCredentialChanged(ctx context.Context, uid string) bool {
	stored, err := d.redis.HGet(ctx, d.enableKey(uid), "fingerprint").Result()
	if err != nil {
		return false
	}
	return stored != d.enrollmentFingerprint()
}

func (d *BiometricDevice) Authenticate(ctx context.Context, uid, accountName, countryCode string) *async.Future[goBioLogin.Identity] {
	return spawn(ctx, d.clock, d.latency, func(ctx context.Context) (goBioLogin.Identity, error) {
		if !d.IsEnabledForUser(ctx, uid) {
			return goBioLogin.Identity{}, sdkError(CodeNotEnabled, "biometric login is not enabled for this account")
		}
		if err := d.prompt(); err != nil {
			return goBioLogin.Identity{}, err
		}
		if d.HasCredentialChanged(ctx, uid) {
			return goBioLogin.Identity{}, async.ErrInvalidState
		}

		email, cc, err := d.account.lookupUser(ctx, uid)
		if err != nil {
			return goBioLogin.Identity{}, err
		}
		if accountName == "" {
			accountName = email
		}
		if countryCode == "" {
			countryCode = cc
		}
		return d.account.openSession(ctx, uid, accountName, countryCode)
	})
}

func (d *BiometricDevice) EnableForUser(ctx context.Context, uid string) *async.Future[goBioLogin.Identity] {
	return spawn(ctx, d.clock, d.latency, func(ctx context.Context) (goBioLogin.Identity, error) {
		email, cc, err := d.account.lookupUser(ctx, uid)
		if err != nil {
			return goBioLogin.Identity{}, err
		}
		if err := d.prompt(); err != nil {
			return goBioLogin.Identity{}, err
		}
		err = d.redis.HSet(ctx, d.enableKey(uid),
			"fingerprint", d.enrollmentFingerprint(),
			"enabled_at", d.clock.Now().Unix(),
		).Err()
		if err != nil {
			return goBioLogin.Identity{}, unavailable(err)
		}
		return goBioLogin.Identity{UserID: uid, Email: email, CountryCode: cc}, nil
	})
}

func (d *BiometricDevice) DisableForUser(ctx context.Context, uid string) error {
	if uid == "" {
		return errors.New("sandbox: empty user id")
	}
	if err := d.redis.Del(ctx, d.enableKey(uid)).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}
