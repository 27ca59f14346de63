package checkout

// StepHandler runs one step against the scenario state.
type StepHandler func(sc *ScenarioContext) error

// Checkout step phrases, matched exactly.
const (
	PhraseCustomerLoggedIn      = "that a customer is logged in"
	PhraseCartHasItems          = "has items in their cart"
	PhraseCustomerConfirmsOrder = "the customer confirms the order"
	PhraseEntersValidPayment    = "enters valid payment information"
	PhraseEntersInvalidCard     = "enters an invalid credit card"
	PhraseOrderPlaced           = "the order should be placed successfully"
	PhrasePaymentAccepted       = "the payment should be accepted"
	PhraseConfirmationShown     = "the order confirmation is shown to the user"
	PhraseCartEmptyErrorShown   = "an error message should be displayed indicating that the cart is empty"
	PhraseTransactionErrorShown = "an error message should be displayed that the transaction can not be processed"
)

// Given steps

// CustomerIsLoggedIn records that the customer has logged in.
func CustomerIsLoggedIn(sc *ScenarioContext) error {
	sc.Set(FlagLoggedIn, true)
	return nil
}

// CartHasItems records that the cart is not empty.
func CartHasItems(sc *ScenarioContext) error {
	sc.Set(FlagCartHasItems, true)
	return nil
}

// When steps

// CustomerConfirmsOrder derives has_items_ok from the login and cart flags.
// A flag no step has set counts as false.
func CustomerConfirmsOrder(sc *ScenarioContext) error {
	sc.Set(FlagHasItemsOK, sc.isTrue(FlagLoggedIn) && sc.isTrue(FlagCartHasItems))
	return nil
}

// EntersValidPayment records valid payment details.
func EntersValidPayment(sc *ScenarioContext) error {
	sc.Set(FlagValidPayment, true)
	return nil
}

// EntersInvalidCreditCard only records that the step happened. No card is
// validated or rejected.
func EntersInvalidCreditCard(sc *ScenarioContext) error {
	sc.Set(FlagInvalidPayment, true)
	return nil
}

// Then steps

// OrderPlacedSuccessfully asserts has_items_ok is true.
func OrderPlacedSuccessfully(sc *ScenarioContext) error {
	return assertFlag(sc, FlagHasItemsOK, true)
}

// PaymentAccepted asserts valid_payment is true.
func PaymentAccepted(sc *ScenarioContext) error {
	return assertFlag(sc, FlagValidPayment, true)
}

// OrderConfirmationShown always passes. It is registered as a no-op
// assertion so the suite can report it.
func OrderConfirmationShown(_ *ScenarioContext) error {
	return nil
}

// CartEmptyErrorDisplayed asserts has_items_ok is false.
func CartEmptyErrorDisplayed(sc *ScenarioContext) error {
	return assertFlag(sc, FlagHasItemsOK, false)
}

// TransactionErrorDisplayed asserts invalid_payment is true.
func TransactionErrorDisplayed(sc *ScenarioContext) error {
	return assertFlag(sc, FlagInvalidPayment, true)
}

func assertFlag(sc *ScenarioContext, flag Flag, expected bool) error {
	actual, err := sc.Get(flag)
	if err != nil {
		return err
	}
	if actual != expected {
		return &AssertionError{Flag: flag, Expected: expected, Actual: actual}
	}
	return nil
}

// CheckoutSteps returns a registry holding every checkout step.
func CheckoutSteps() *StepRegistry {
	r := NewStepRegistry()
	r.MustRegister(Given, PhraseCustomerLoggedIn, CustomerIsLoggedIn)
	r.MustRegister(Given, PhraseCartHasItems, CartHasItems)

	r.MustRegister(When, PhraseCustomerConfirmsOrder, CustomerConfirmsOrder)
	r.MustRegister(When, PhraseEntersValidPayment, EntersValidPayment)
	r.MustRegister(When, PhraseEntersInvalidCard, EntersInvalidCreditCard)

	r.MustRegister(Then, PhraseOrderPlaced, OrderPlacedSuccessfully)
	r.MustRegister(Then, PhrasePaymentAccepted, PaymentAccepted)
	r.MustRegister(Then, PhraseConfirmationShown, OrderConfirmationShown, AsNoop())
	r.MustRegister(Then, PhraseCartEmptyErrorShown, CartEmptyErrorDisplayed)
	r.MustRegister(Then, PhraseTransactionErrorShown, TransactionErrorDisplayed)
	return r
}
