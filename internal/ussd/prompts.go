package ussd

// Caller-facing text. Carriers cap a screen at 182 characters.
const (
	msgWelcome           = "Welcome to %s.\nEnter your unit identifier:"
	msgEnterAmount       = "Enter amount to pay (KES):"
	msgConfirm           = "Pay KES %s for unit %s from %s?\n1. Confirm\n2. Cancel"
	msgInvalidChoice     = "Invalid choice.\n1. Confirm\n2. Cancel"
	msgPaymentInitiated  = "Payment initiated. Thank you."
	msgTransactionFailed = "Transaction failed. Please try again."
	msgCancelled         = "Payment cancelled."
	msgSessionEnded      = "Session has ended."
	msgSomethingWrong    = "Something went wrong. Please try again later."

	msgUnitLength   = "The unit identifier should be 6 characters long. Please try again."
	msgUnitNotFound = "Unit not found. Please try again."
	msgBadAmount    = "Invalid amount: %s.\nThe amount must be between KES 1 and KES 150,000.\nPlease try again."
	msgBadPhone     = "Invalid phone number: %s.\nPlease try again."
	msgCallerNumber = "Invalid phone number: %s.\nThis number cannot pay by M-Pesa."
)

// Confirmation menu choices.
const (
	choiceConfirm = "1"
	choiceCancel  = "2"
)

// GenericFailure is the terminal reply used when a request cannot be read at
// all. It carries no detail about what went wrong.
func GenericFailure() Prompt {
	return End(msgSomethingWrong)
}
