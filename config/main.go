package config

import (
	"context"
	"fmt"
	"strconv"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	db "github.com/findhari93-sketch/NeramNewApp-sub004/db"
	linkedin "github.com/findhari93-sketch/NeramNewApp-sub004/linkedin"
	razorpay "github.com/findhari93-sketch/NeramNewApp-sub004/razorpay"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"gopkg.in/gomail.v2"
)

type Configuration struct {
	JWTSecret      string `env:"JWT_SECRET,required"`
	SessionSecret  string `env:"SESSION_SECRET,required"`
	PayTokenSecret string `env:"PAYTOKEN_SECRET,required"`
	Port           int    `env:"PORT,default=3001"`
	Timeout        int    `env:"TIMEOUT,default=30"`
	DB             db.Storage
	SQL            database
	AwsSMTP        awsSMTP
	AwsS3          awsS3
	Razorpay       razorpayConf
	LinkedIn       linkedinConf
	Firebase       firebaseConf
	Mail           mail
	Environment    string `env:"ENVIRONMENT,default=development"`
	AppName        string `env:"APP_NAME,default=neram-payments"`
	FrontendURL    string `env:"FRONTEND_BASE_URL,default=https://www.neramclasses.com"`
}

type database struct {
	URL            string `env:"DATA_BASE_URL,required"`
	Name           string `env:"DATA_BASE_NAME,required"`
	User           string `env:"DATA_BASE_USER,required"`
	Port           int    `env:"DATA_BASE_PORT,default=5432"`
	Password       string `env:"DATA_BASE_PASSWORD,required"`
	SSLMode        string `env:"DATA_BASE_SSL_MODE,default=require"`
	OpenConnection int    `env:"DATA_BASE_MAX_OPEN_CONNECTION,default=5"`
}

type awsSMTP struct {
	SMTPHost     string `env:"SMTP_HOST,required"`
	SMTPPort     int    `env:"SMTP_PORT,required"`
	SMTPUser     string `env:"SMTP_USER,required"`
	SMTPPassword string `env:"SMTP_PASSWORD,required"`
}

type razorpayConf struct {
	BaseURL          string `env:"RAZORPAY_BASEURL,default=https://api.razorpay.com"`
	KeyID            string `env:"RAZORPAY_KEY_ID"`
	KeySecret        string `env:"RAZORPAY_KEY_SECRET"`
	WebhookSecret    string `env:"RAZORPAY_WEBHOOK_SECRET,required"`
	PathPaymentLinks string `env:"RAZORPAY_PATH_PAYMENT_LINKS,default=/v1/payment_links"`
	PathPayments     string `env:"RAZORPAY_PATH_PAYMENTS,default=/v1/payments"`
	CallbackURL      string `env:"RAZORPAY_CALLBACK_URL"`
}

type linkedinConf struct {
	ClientID     string `env:"LINKEDIN_CLIENT_ID"`
	ClientSecret string `env:"LINKEDIN_CLIENT_SECRET"`
	RedirectURL  string `env:"LINKEDIN_REDIRECT_URL"`
}

type firebaseConf struct {
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
}

type awsS3 struct {
	S3Region      string `env:"S3_REGION,required"`
	S3Bucket      string `env:"S3_BUCKET,required"`
	S3Url         string `env:"S3_URL,required"`
	S3PathInvoice string `env:"S3_PATH_INVOICE,default=invoice"`
}

type mail struct {
	PaymentSuccess mailPaymentSuccess
	PaymentLink    mailPaymentLink
	AdminNotice    mailAdminNotice
	AdminList      []string `env:"MAIL_ADMIN_LIST"`
	NameFrom       string   `env:"MAIL_NAME_FROM"`
	EmailFrom      string   `env:"MAIL_EMAIL_FROM"`
	Folder         string   `env:"MAIL_FOLDER"`
	Path           string   `env:"MAIL_PATH"`
}

type mailPaymentSuccess struct {
	Subject  string `env:"MAIL_PAYMENT_SUCCESS_SUBJECT,default=Payment received - Neram Classes"`
	Template string `env:"MAIL_PAYMENT_SUCCESS_TEMPLATE,default=payment_success.html"`
	FileName string `env:"MAIL_PAYMENT_SUCCESS_FILENAME,default=invoice.pdf"`
}

type mailPaymentLink struct {
	Subject  string `env:"MAIL_PAYMENT_LINK_SUBJECT,default=Complete your admission payment - Neram Classes"`
	Template string `env:"MAIL_PAYMENT_LINK_TEMPLATE,default=payment_link.html"`
}

type mailAdminNotice struct {
	Subject  string `env:"MAIL_ADMIN_NOTICE_SUBJECT,default=Payment update"`
	Template string `env:"MAIL_ADMIN_NOTICE_TEMPLATE,default=admin_notice.html"`
}

type AppContext struct {
	Config       Configuration
	SQLConn      *sqlx.DB
	DB           db.Storage
	AwsSMTP      *gomail.Dialer
	AwsS3        *session.Session
	Razorpay     *razorpay.Client
	LinkedIn     *linkedin.Client
	FirebaseAuth *firebaseauth.Client
}

func CreateConnectionSQL(conf database) (*sqlx.DB, error) {
	conn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		conf.URL, strconv.Itoa(conf.Port), conf.User, conf.Password, conf.Name, conf.SSLMode)
	connection, err := sqlx.Connect("postgres", conn)
	if err != nil {
		return nil, err
	}
	connection.SetMaxOpenConns(conf.OpenConnection)
	return connection, nil
}

func CreateNewConnectionSMTP(conf awsSMTP) *gomail.Dialer {
	conn := gomail.NewDialer(conf.SMTPHost, conf.SMTPPort, conf.SMTPUser, conf.SMTPPassword)
	return conn
}

func CreateRazorpayIntegration(conf razorpayConf) *razorpay.Client {
	rz := razorpay.Client{
		BaseURL:          conf.BaseURL,
		KeyID:            conf.KeyID,
		KeySecret:        conf.KeySecret,
		WebhookSecret:    conf.WebhookSecret,
		PathPaymentLinks: conf.PathPaymentLinks,
		PathPayments:     conf.PathPayments,
		CallbackURL:      conf.CallbackURL,
	}

	return &rz
}

func CreateLinkedInIntegration(conf linkedinConf) *linkedin.Client {
	li := linkedin.Client{
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		RedirectURL:  conf.RedirectURL,
	}

	return &li
}

func CreateFirebaseAuth(conf firebaseConf) (*firebaseauth.Client, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if conf.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(conf.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: conf.ProjectID}, opts...)
	if err != nil {
		return nil, err
	}

	return app.Auth(ctx)
}

func CreateNewSessionS3(conf awsS3) (*session.Session, error) {
	s, err := session.NewSession(&aws.Config{Region: aws.String(conf.S3Region)})
	return s, err
}

var logger *log.Entry

func SetLogger(newLogger *log.Entry) {
	logger = newLogger
}

func GetLogger() *log.Entry {
	return logger
}
