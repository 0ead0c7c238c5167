package command

const (
	textUnknown      = "No option available. Use /help to see all the commands."
	textUnauthorized = "Hi! This bot has been designed to be manipulated by a restrained set of users. Talk with this bot's administrator for more info."
	textWelcome      = "Welcome to *Bloomgogo War Bot*! Use /help for more information"
	textInternal     = "⚠️ Something went wrong. Check the logs and try again."
	textWrongArgs    = "Wrong number of arguments."

	textNoNextBattle    = "There will be no next battle. Use /schedulebattle to configure it."
	textNextBattleAt    = "Next battle is scheduled to happen at: "
	textBattleStopped   = "Next battle has successfully been stopped. "
	textModified        = "Successfully modified. "
	textWrongFormat     = "Not modified, wrong format. You must insert the date in the format dd/mm/yy HH:MM. "
	textNoNextBattleEnd = "There will be no next battle."

	textFrequencyStopped = "Battle frequency was already stopped."
	textFrequencyInvalid = "You must insert a valid amount of hours and minutes."
	textAutoAlreadyOff   = "Automatic battles were alredy stopped. To resume, use /setbattlefrequency."
	textAutoOff          = "Automatic battles have successfully been stopped. To resume, use /setbattlefrequency."

	promptGetFighter      = "Insert the name of the fighter, or use the buttons prompted."
	promptAddFighter      = "Insert the name of the fighter to add, or use the buttons prompted."
	promptDeleteFighter   = "Insert the name of the fighter to delete, or use the buttons prompted."
	promptDeleteCandidate = "Insert the name of the candidate to delete, or use the buttons prompted."
	promptRevive          = "Insert the name of the fighter to revive, or use the buttons prompted."

	headerFighters   = "👥 *List of fighters:*"
	headerCandidates = "🕵️ *List of candidates:*"
)

const textHelp = "*Bloomgogo War Bot* v1.0\n\n" +
	"*Commands 👩‍💻👨‍💻*\n" +
	"\n🔁 Sync:\n" +
	"/runoptin · Allows Twitter users to add themselves to the candidates list 📬 mentioning the account\n" +
	"/stopoptin · Stops previous functionality 📭\n" +
	"\n⚔️ Battles:\n" +
	"/nextbattle · Information about when the next battle will happen ⏰\n" +
	"/schedulebattle `[dd/mm/aaaa hh:mm | hh:mm | stop]` · Configures when next battle will happen ➡️⏰\n" +
	"• `dd/mm/aaaa hh:mm` · Specify day and hour\n" +
	"• `hh:mm` · Specify hour (if passed, tomorrow will be assigned)\n" +
	"• `stop` · Stop battles 🛑⏰\n" +
	"/battlefrequency · Returns frequency in which battles will be programmed ⏳\n" +
	"/setbattlefrequency `[hours] [minutes]` · Configures frequency in which battles will be programmed ➡️⏳\n" +
	"/stopfrequency · Stop automatic battles 🛑⏳\n" +
	"/forcebattle `(winner) (defeated)` · Force a battle ➡️⚔️\n" +
	"• `winner` · Fighter that will win the battle\n" +
	"• `defeated` · Fighter that will lose the battle\n" +
	"• leave blank to inquire a random battle\n" +
	"\nℹ️ Information and status:\n" +
	"/getfighters · Returns a complete list of fighters, including their state in the game 👥\n" +
	"/getfighter `[username]` · Return all information about a fighter 👥\n" +
	"/getcandidates · Return complete list of candidates 🕵️\n" +
	"\n➡️👥 Alter users:\n" +
	"/addfighter `[username](!)` · Add a fighter\n" +
	"• `!` · Add the sign `!` to publish a tweet announcing that the user has been added to the game as fighter 🔔\n" +
	"/deletefighter `[username]` · Delete a fighter (use with caution!)\n" +
	"/addcandidate `[username]` · Add a candidate\n" +
	"/deletecandidate `[username]` · Delete a candidate (use with caution!)\n" +
	"/revive `[username]` · Revive a fighter 🧟\n" +
	"\nInteractivity:\n" +
	"/announcefighters · Automatically announce added fighters 🔔\n" +
	"/stopannouncefighters · New fighters will be announced only if specified when adding 🛑🔔\n" +
	"\n📈 Status:\n" +
	"/status · Retrieve bot status\n" +
	"/restart `confirm` · Restart database"
