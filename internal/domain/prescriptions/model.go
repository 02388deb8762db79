package prescriptions

import "time"

type Medicine struct {
	Name      string `bson:"name" json:"name"`
	Dosage    string `bson:"dosage" json:"dosage"`
	Frequency string `bson:"frequency" json:"frequency"`
	Duration  string `bson:"duration" json:"duration"`
}

type Prescription struct {
	ID            string `bson:"_id" json:"id"`
	AppointmentID string `bson:"appointmentId" json:"appointmentId"`
	DoctorID      string `bson:"doctorId" json:"doctorId"`
	DoctorName    string `bson:"doctorName" json:"doctorName"`

	PetName    string `bson:"petName" json:"petName"`
	OwnerName  string `bson:"ownerName" json:"ownerName"`
	OwnerEmail string `bson:"ownerEmail" json:"ownerEmail"`

	Diagnosis string     `bson:"diagnosis" json:"diagnosis"`
	Medicines []Medicine `bson:"medicines" json:"medicines"`
	Advice    string     `bson:"advice" json:"advice"`

	FileURL  string `bson:"fileUrl" json:"fileUrl"`
	FilePath string `bson:"filePath" json:"filePath"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
