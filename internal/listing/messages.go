package listing

const (
	msgWelcome        = "Hi! Let’s add a car rental listing.\n\nSend the *Vehicle Name* (e.g., 'BMW M4 Competition')."
	msgNameRetry      = "Please send the *Vehicle Name* as text."
	msgCategory       = "Choose a *Category*:"
	msgCategoryRetry  = "Please choose: Exotic, Economic, or Luxury."
	msgPrice          = "Enter the *Price per day* (e.g., 149.99):"
	msgPriceRetry     = "Please send a valid number (e.g., 149.99)."
	msgPhoto1         = "Send *Photo #1* as a Photo (not as a file)."
	msgPhoto2         = "Great! Now send *Photo #2*."
	msgPhotoRetry     = "Please send a *photo* (not a document)."
	msgEditPhotoRetry = "Please send a *photo*."

	msgEditName     = "Send the new *Vehicle Name*:"
	msgEditCategory = "Choose the new *Category*:"
	msgEditPrice    = "Send the new *Price per day* (e.g., 159.99):"
	msgEditPhoto1   = "Send the new *Photo #1*."
	msgEditPhoto2   = "Send the new *Photo #2*."

	msgIncomplete = "Listing is incomplete. Please fill all fields and set both photos."
	msgAdminUnset = "Admin chat not set yet. Send /id to the bot and put that number into ADMIN\\_CHAT\\_ID in your .env, then restart."
	msgDelivered  = "✅ Submitted! Thanks—your listing was sent to the admin."
	msgFailed     = "Sorry, I couldn’t deliver this to the admin. Try again later."
	msgCancelled  = "❌ Cancelled. Use /start to begin again."
	msgNoListing  = "No active listing. Use /start to begin."
)
