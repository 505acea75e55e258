package utils

//DefaultInertia is the number of past team labels used to smooth a player's team
const DefaultInertia = 20

//YieldEvery is the number of frames processed between two yields of the frame loop to the scheduler
const YieldEvery = 10

//MaxFrames bounds the number of frames processed from one video
const MaxFrames = 5000

//DefaultFPS is used when the container does not report its frame rate
const DefaultFPS = 30.0

//RawVideoSuffix is appended to the final output path to name the intermediate (not web playable) video
const RawVideoSuffix = ".tmp.mp4"

//RawVideoCodec is the fourcc used by OpenCV to write the intermediate video
const RawVideoCodec = "mp4v"

//DefaultMatchKey is used when a request does not name a match
const DefaultMatchKey = "chelsea_man_city"

//VideoExtensions lists the container formats accepted for upload
var VideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv"}
