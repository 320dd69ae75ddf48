package msgframe

// StandardInterchangeSchema returns the bundled financial interchange schema:
// a two-byte binary length prefix, a four-digit message type header, a 64-bit
// binary bitmap, and the common data elements of an authorization exchange.
// It is the schema used by the command-line tool when none is given and a
// convenient starting point for custom layouts.
func StandardInterchangeSchema() *MessageSchema {
	controls := make([]int, 0, 63)
	for id := 2; id <= 64; id++ {
		controls = append(controls, id)
	}
	s := &MessageSchema{
		Name:            "standard-interchange",
		Version:         "1",
		DefaultEncoding: CodecASCII,
		Header: &HeaderSchema{
			LengthPrefix: &LengthPrefixSchema{Bytes: 2, Encoding: CodecBinary},
			Fields: []FieldSchema{
				{ID: 0, Name: "message_type", Type: FieldNumeric, Length: 4, Required: true},
			},
		},
		Fields: []FieldSchema{
			{ID: 1, Name: "bitmap", Type: FieldBitmap, Length: 64, Encoding: CodecBinary, Controls: controls},

			{ID: 2, Name: "pan", Type: FieldNumeric, Length: 19, LengthType: LengthLLVAR, Encoding: CodecBCD, Sensitive: true},                  // Primary Account Number
			{ID: 3, Name: "processing_code", Type: FieldNumeric, Length: 6, Encoding: CodecBCD, Required: true},                                 // Processing Code
			{ID: 4, Name: "amount", Type: FieldNumeric, Length: 12, Encoding: CodecBCD, Required: true},                                         // Amount, Transaction
			{ID: 7, Name: "transmission_ts", Type: FieldNumeric, Length: 10, Encoding: CodecBCD, Required: true},                                // Transmission Date & Time (MMDDhhmmss)
			{ID: 11, Name: "stan", Type: FieldNumeric, Length: 6, Encoding: CodecBCD, Required: true},                                           // System Trace Audit Number
			{ID: 12, Name: "local_time", Type: FieldNumeric, Length: 6, Encoding: CodecBCD},                                                     // Time, Local Transaction (hhmmss)
			{ID: 13, Name: "local_date", Type: FieldNumeric, Length: 4, Encoding: CodecBCD},                                                     // Date, Local Transaction (MMDD)
			{ID: 14, Name: "expiry", Type: FieldNumeric, Length: 4, Encoding: CodecBCD, Sensitive: true},                                        // Date, Expiration
			{ID: 22, Name: "pos_entry_mode", Type: FieldNumeric, Length: 3},                                                                     // Point of Service Entry Mode
			{ID: 25, Name: "pos_condition", Type: FieldNumeric, Length: 2},                                                                      // Point of Service Condition Code
			{ID: 28, Name: "fee", Type: FieldNumeric, Length: 8, Encoding: CodecPacked},                                                         // Amount, Transaction Fee (signed)
			{ID: 32, Name: "acquirer_id", Type: FieldNumeric, Length: 11, LengthType: LengthLLVAR, Encoding: CodecBCD},                          // Acquiring Institution Identification Code
			{ID: 35, Name: "track2", Type: FieldTrack2, Length: 37, LengthType: LengthLLVAR, Sensitive: true},                                   // Track 2 Data
			{ID: 37, Name: "rrn", Type: FieldAlphanumeric, Length: 12},                                                                          // Retrieval Reference Number
			{ID: 38, Name: "auth_id", Type: FieldAlphanumeric, Length: 6},                                                                       // Authorization Identification Response
			{ID: 39, Name: "response_code", Type: FieldAlphanumeric, Length: 2},                                                                 // Response Code
			{ID: 41, Name: "terminal_id", Type: FieldAlphanumeric, Length: 8, PadDir: PadRight},                                                 // Card Acceptor Terminal Identification
			{ID: 42, Name: "merchant_id", Type: FieldAlphanumeric, Length: 15, PadDir: PadRight},                                                // Card Acceptor Identification Code
			{ID: 43, Name: "merchant_location", Type: FieldAlpha, Length: 40, PadDir: PadRight},                                                 // Card Acceptor Name/Location
			{ID: 44, Name: "additional_response", Type: FieldAlphanumeric, Length: 25, LengthType: LengthLLVAR},                                 // Additional Response Data
			{ID: 48, Name: "additional_private", Type: FieldComposite, Length: 13, Children: []FieldSchema{
				{ID: 1, Name: "network_id", Type: FieldNumeric, Length: 3},
				{ID: 2, Name: "terminal_owner", Type: FieldAlphanumeric, Length: 10, PadDir: PadRight},
			}}, // Additional Data, Private
			{ID: 49, Name: "currency", Type: FieldNumeric, Length: 3, Required: true},                                                           // Currency Code, Transaction
			{ID: 52, Name: "pin_block", Type: FieldBinary, Length: 8, Encoding: CodecBinary, Sensitive: true},                                   // PIN Data
			{ID: 55, Name: "icc_data", Type: FieldBinary, Length: 255, LengthType: LengthLLLVAR, Encoding: CodecBinary},                         // ICC Data (EMV)
			{ID: 62, Name: "private_data", Type: FieldAlphanumeric, Length: 999, LengthType: LengthLLLVAR},                                      // Reserved, Private
			{ID: 64, Name: "mac", Type: FieldBinary, Length: 8, Encoding: CodecHex},                                                             // Message Authentication Code
		},
	}
	return s
}
