package goBioLogin

// Screen identifies one of the application's screens.
type Screen uint8

const (
	// ScreenNone means "stay where you are".
	ScreenNone Screen = iota
	ScreenPasswordLogin
	ScreenBiometricLogin
	ScreenHome
	ScreenRegister
)

func (s Screen) String() string {
	switch s {
	case ScreenPasswordLogin:
		return "password_login"
	case ScreenBiometricLogin:
		return "biometric_login"
	case ScreenHome:
		return "home"
	case ScreenRegister:
		return "register"
	default:
		return "none"
	}
}

// Control identifies an interactive or labelled element of a screen.
type Control uint8

const (
	ControlLogin Control = iota + 1
	ControlRegisterLink

	ControlSendCode
	ControlRegister

	ControlAccountName
	ControlFingerIcon
	ControlFingerText

	ControlWelcome
	ControlEnableBiometric
	ControlDisableBiometric
	ControlLogout
)

func (c Control) String() string {
	switch c {
	case ControlLogin:
		return "login"
	case ControlRegisterLink:
		return "register_link"
	case ControlSendCode:
		return "send_code"
	case ControlRegister:
		return "register"
	case ControlAccountName:
		return "account_name"
	case ControlFingerIcon:
		return "finger_icon"
	case ControlFingerText:
		return "finger_text"
	case ControlWelcome:
		return "welcome"
	case ControlEnableBiometric:
		return "enable_biometric"
	case ControlDisableBiometric:
		return "disable_biometric"
	case ControlLogout:
		return "logout"
	default:
		return "unknown"
	}
}

// MessageKind selects how a Message is presented.
type MessageKind uint8

const (
	// MessageNotice is a transient, non-blocking notice.
	MessageNotice MessageKind = iota
	// MessageDialog is modal and must be acknowledged.
	MessageDialog
)

// Message is user-facing feedback.
type Message struct {
	Kind MessageKind
	Text string
	// Fallback is the screen a host opens once a dialog is acknowledged.
	// ScreenNone keeps the current screen.
	Fallback Screen
}

// View is the rendering port a host implements for one screen instance.
// Every method is invoked on the UI loop.
type View interface {
	ShowMessage(msg Message)
	SetEnabled(control Control, enabled bool)
	SetLabel(control Control, text string)
	SetBusy(busy bool)
	Navigate(screen Screen)
}
