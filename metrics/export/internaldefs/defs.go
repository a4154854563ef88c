package internaldefs

import (
	goBioLogin "github.com/MrEthical07/goBioLogin"
)

// Def binds a MetricID to its exported name.
type Def struct {
	ID   goBioLogin.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in render order.
var CounterDefs = []Def{
	{ID: goBioLogin.MetricPasswordLoginSuccess, Name: "biologin_password_login_success_total", Help: "Successful password logins."},
	{ID: goBioLogin.MetricPasswordLoginFailure, Name: "biologin_password_login_failure_total", Help: "Failed password logins."},
	{ID: goBioLogin.MetricValidationRejected, Name: "biologin_validation_rejected_total", Help: "Form submissions rejected before any SDK call."},
	{ID: goBioLogin.MetricVerifyCodeSent, Name: "biologin_verify_code_sent_total", Help: "Verification codes sent."},
	{ID: goBioLogin.MetricVerifyCodeSendFailure, Name: "biologin_verify_code_send_failure_total", Help: "Verification code sends that failed."},
	{ID: goBioLogin.MetricVerifyCodeRejected, Name: "biologin_verify_code_rejected_total", Help: "Verification codes rejected during registration."},
	{ID: goBioLogin.MetricRegisterSuccess, Name: "biologin_register_success_total", Help: "Accounts created."},
	{ID: goBioLogin.MetricRegisterFailure, Name: "biologin_register_failure_total", Help: "Registrations that failed after local validation."},
	{ID: goBioLogin.MetricBiometricLoginSuccess, Name: "biologin_biometric_login_success_total", Help: "Successful biometric logins."},
	{ID: goBioLogin.MetricBiometricLoginFailure, Name: "biologin_biometric_login_failure_total", Help: "Biometric logins that failed."},
	{ID: goBioLogin.MetricBiometricLoginCancelled, Name: "biologin_biometric_login_cancelled_total", Help: "Biometric prompts cancelled by the user."},
	{ID: goBioLogin.MetricBiometricPreconditionFailed, Name: "biologin_biometric_precondition_failed_total", Help: "Biometric logins stopped by a local precondition."},
	{ID: goBioLogin.MetricBiometricTapThrottled, Name: "biologin_biometric_tap_throttled_total", Help: "Biometric taps ignored inside the click interval."},
	{ID: goBioLogin.MetricBiometricEnabled, Name: "biologin_biometric_enabled_total", Help: "Biometric enrollments."},
	{ID: goBioLogin.MetricBiometricEnableFailure, Name: "biologin_biometric_enable_failure_total", Help: "Biometric enrollments that did not complete."},
	{ID: goBioLogin.MetricBiometricDisabled, Name: "biologin_biometric_disabled_total", Help: "Biometric login disabled by the user."},
	{ID: goBioLogin.MetricLogoutSuccess, Name: "biologin_logout_success_total", Help: "Successful logouts."},
	{ID: goBioLogin.MetricLogoutFailure, Name: "biologin_logout_failure_total", Help: "Logouts rejected by the account service."},
	{ID: goBioLogin.MetricSessionStoreFailure, Name: "biologin_session_store_failure_total", Help: "Session store reads or writes that failed."},
}

// HistogramDefs lists every exported latency histogram.
var HistogramDefs = []Def{
	{ID: goBioLogin.MetricPasswordLoginLatency, Name: "biologin_password_login_latency_seconds", Help: "Password login round-trip latency."},
	{ID: goBioLogin.MetricBiometricLoginLatency, Name: "biologin_biometric_login_latency_seconds", Help: "Biometric prompt round-trip latency."},
}

// AuditDroppedName is the counter for audit events lost to backpressure.
const AuditDroppedName = "biologin_audit_dropped_total"

// BucketCount matches the in-process histogram layout.
const BucketCount = 8

// HistogramBounds are the Prometheus "le" labels, in bucket order.
var HistogramBounds = [BucketCount]string{"0.1", "0.25", "0.5", "1", "2.5", "5", "10", "+Inf"}

// HistogramBoundSuffix names each bucket for backends that cannot carry labels.
var HistogramBoundSuffix = [BucketCount]string{"0_1", "0_25", "0_5", "1", "2_5", "5", "10", "inf"}

// CumulativeBuckets converts raw per-bucket counts into running totals. Short
// or missing input is zero-filled.
func CumulativeBuckets(raw []uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	var running uint64
	for i := 0; i < BucketCount; i++ {
		if i < len(raw) {
			running += raw[i]
		}
		out[i] = running
	}
	return out
}
