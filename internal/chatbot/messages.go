package chatbot

import "fmt"

const (
	msgGreeting = "Hi! I can help you book a dental appointment, suggest a dentist, or answer questions about payment. What would you like to do?"

	msgUnknownIntent = "Sorry, I didn't quite get that. You can say something like \"I want to book an appointment\"."

	msgDentistInfo = "Our clinic has endodontists, orthodontists, periodontists, prosthodontists, cosmetic dentists and general dentists on staff. Say \"book an appointment\" whenever you're ready."

	msgPaymentInfo = "We accept card and cash at the clinic, and most major insurance plans. For a cost estimate, please book an appointment and our staff will follow up."

	msgGeneralInfo = "I'm a booking assistant for the dental clinic. Say \"book an appointment\" and I'll walk you through it."

	msgAskName        = "Great, let's get you booked in. What's your full name?"
	msgInvalidName    = "I didn't catch that. Please tell me your full name."
	msgInvalidEmail   = "That doesn't look like a valid email address. Please try again (e.g. name@example.com)."
	msgAskPhone       = "And your phone number?"
	msgInvalidPhone   = "Please enter a valid phone number (10 to 15 digits)."
	msgAskSymptoms    = "What brings you in? Describe your symptoms or the reason for your visit."
	msgNoAvailability = "I'm sorry, we couldn't find an available dentist for your needs right now. Please try again later or call the clinic directly."

	msgInvalidSlot = "Please pick one of the listed slots by replying with its number."

	msgConfirmAgain = "Please reply yes to confirm the booking, or no to pick a different slot."

	msgPaymentOffer = "You can pay at the clinic on the day of your visit. Online payment is coming soon."

	msgGoodbye = "Thanks for booking with us. Take care!"
)

func msgAskEmail(name string) string {
	return fmt.Sprintf("Thanks, %s. What's your email address?", name)
}

func msgProposeSlots(dentistName, specialization string) string {
	return fmt.Sprintf("%s (%s) has the following openings. Reply with the number of the slot you'd like:", dentistName, specialization)
}

func msgConfirmSlot(date, timeOfDay, dentistName string) string {
	return fmt.Sprintf("You picked %s at %s with %s. Shall I confirm this booking?", date, timeOfDay, dentistName)
}

func msgBooked(reference, date, timeOfDay, dentistName string) string {
	return fmt.Sprintf("You're booked with %s on %s at %s. Your booking reference is %s. %s",
		dentistName, date, timeOfDay, reference, msgPaymentOffer)
}
